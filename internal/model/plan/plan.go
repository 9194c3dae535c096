// Package plan 定义商业计划的固定枚举：模式、模块、顾问代理以及它们之间的静态映射。
package plan

import "strings"

// Mode 表示会话模式，创建后不可更改。
type Mode string

const (
	Entrepreneur Mode = "entrepreneur"
	Consultant   Mode = "consultant"
)

// ParseMode 解析客户端传入的模式，空值回退为 Entrepreneur。
func ParseMode(raw string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Entrepreneur:
		return Entrepreneur, true
	case Consultant:
		return Consultant, true
	default:
		return "", false
	}
}

// Module 是商业计划中的一个主题模块。
type Module string

const (
	IdeaConcept       Module = "idea_concept"
	TargetMarket      Module = "target_market"
	ValueProposition  Module = "value_proposition"
	BusinessModel     Module = "business_model"
	MarketingStrategy Module = "marketing_strategy"
	OperationsPlan    Module = "operations_plan"
	FinancialPlan     Module = "financial_plan"
)

// Modules 按规范顺序返回全部模块。
func Modules() []Module {
	return []Module{
		IdeaConcept,
		TargetMarket,
		ValueProposition,
		BusinessModel,
		MarketingStrategy,
		OperationsPlan,
		FinancialPlan,
	}
}

// Valid reports whether m is one of the canonical modules.
func (m Module) Valid() bool {
	for _, known := range Modules() {
		if m == known {
			return true
		}
	}
	return false
}

// Title returns a human readable label.
func (m Module) Title() string {
	switch m {
	case IdeaConcept:
		return "Idea & Concept"
	case TargetMarket:
		return "Target Market"
	case ValueProposition:
		return "Value Proposition"
	case BusinessModel:
		return "Business Model"
	case MarketingStrategy:
		return "Marketing Strategy"
	case OperationsPlan:
		return "Operations Plan"
	case FinancialPlan:
		return "Financial Plan"
	default:
		return string(m)
	}
}

// AgentType 标识一个顾问代理人格。
type AgentType string

const (
	IdeaAgent       AgentType = "idea"
	StrategyAgent   AgentType = "strategy"
	FinanceAgent    AgentType = "finance"
	OperationsAgent AgentType = "operations"
)

var moduleAgents = map[Module]AgentType{
	IdeaConcept:       IdeaAgent,
	TargetMarket:      StrategyAgent,
	ValueProposition:  StrategyAgent,
	BusinessModel:     StrategyAgent,
	MarketingStrategy: StrategyAgent,
	OperationsPlan:    OperationsAgent,
	FinancialPlan:     FinanceAgent,
}

// AgentFor 返回负责该模块的代理。每个模块固定绑定一个代理。
func AgentFor(m Module) AgentType {
	if agent, ok := moduleAgents[m]; ok {
		return agent
	}
	return IdeaAgent
}

// DefaultModule 返回模式的起始模块。
func DefaultModule(mode Mode) Module {
	if mode == Consultant {
		return BusinessModel
	}
	return IdeaConcept
}

// CompletionStatus 描述模块上下文的完成度。
type CompletionStatus string

const (
	StatusEmpty    CompletionStatus = "empty"
	StatusPartial  CompletionStatus = "partial"
	StatusComplete CompletionStatus = "complete"
)

// StatusFor 根据事实数量计算完成度，threshold 为 complete 所需的最少键数。
func StatusFor(facts, threshold int) CompletionStatus {
	if threshold < 1 {
		threshold = 1
	}
	switch {
	case facts <= 0:
		return StatusEmpty
	case facts >= threshold:
		return StatusComplete
	default:
		return StatusPartial
	}
}
