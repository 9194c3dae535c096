package chat

import "github.com/utopia-ai/advisor/backend/internal/model/plan"

// ModuleUpdate reports a bucket that changed during a turn.
type ModuleUpdate struct {
	ModuleType       plan.Module           `json:"moduleType"`
	Data             map[string]string     `json:"data"`
	Summary          string                `json:"summary"`
	CompletionStatus plan.CompletionStatus `json:"completionStatus"`
}

// TurnResult 是一次对话轮次返回给客户端的结构化结果。
type TurnResult struct {
	Message            string         `json:"message"`
	SessionID          string         `json:"sessionId"`
	Agent              plan.AgentType `json:"agent"`
	CurrentModule      plan.Module    `json:"currentModule,omitempty"`
	IsModuleTransition bool           `json:"isModuleTransition"`
	UpdatedModules     []ModuleUpdate `json:"updatedModules"`
	Questions          []Question     `json:"questions,omitempty"`
}

// ModuleView is the dashboard projection of a bucket.
type ModuleView struct {
	ModuleType       plan.Module           `json:"moduleType"`
	Data             map[string]string     `json:"data"`
	Summary          string                `json:"summary,omitempty"`
	CompletionStatus plan.CompletionStatus `json:"completionStatus"`
	LastUpdated      string                `json:"lastUpdated"`
}

// SessionView 是会话面板读取接口的返回体。
type SessionView struct {
	SessionID           string         `json:"sessionId"`
	Mode                plan.Mode      `json:"mode"`
	CurrentAgent        plan.AgentType `json:"currentAgent"`
	CurrentModule       plan.Module    `json:"currentModule,omitempty"`
	Modules             []ModuleView   `json:"modules"`
	ConversationHistory []Message      `json:"conversationHistory"`
	PendingQuestions    []Question     `json:"pendingQuestions"`
}
