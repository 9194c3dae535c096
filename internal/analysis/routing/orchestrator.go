// Package routing decides which agent and module handle a conversation turn.
package routing

import (
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// State is the session state the decision depends on.
type State struct {
	Mode          plan.Mode
	CurrentAgent  plan.AgentType
	CurrentModule plan.Module
}

// Decision 是一次轮次的路由结果。
type Decision struct {
	Agent        plan.AgentType
	Module       plan.Module
	IsTransition bool
}

// Decide 是纯函数，消息文本只通过 override（由切换短语解析得到）影响结果。
// 显式模块请求优先，其次沿用当前模块，最后回退到模式的起始模块。
// 代理由模块静态决定。只有在进入时已有模块且目标不同才视为切换。
func Decide(state State, override plan.Module) Decision {
	target := state.CurrentModule
	switch {
	case override != "" && override.Valid():
		target = override
	case target == "" || !target.Valid():
		target = plan.DefaultModule(state.Mode)
	}

	return Decision{
		Agent:        plan.AgentFor(target),
		Module:       target,
		IsTransition: state.CurrentModule != "" && target != state.CurrentModule,
	}
}
