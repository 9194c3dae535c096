package agent

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utopia-ai/advisor/backend/internal/model/agent"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
	"github.com/utopia-ai/advisor/backend/pkg/utils"
)

// Handler 顾问代理目录的HTTP处理器
type Handler struct {
	agents agent.Store
}

// New 创建代理目录处理器
func New(agents agent.Store) *Handler {
	return &Handler{agents: agents}
}

// RegisterRoutes 注册代理与模块目录路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/agents", h.handleListAgents)
	r.Get("/modules", h.handleListModules)
}

func (h *Handler) handleListAgents(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.agents.List())
}

type moduleEntry struct {
	ID    plan.Module    `json:"id"`
	Title string         `json:"title"`
	Agent plan.AgentType `json:"agent"`
}

func (h *Handler) handleListModules(w http.ResponseWriter, _ *http.Request) {
	modules := plan.Modules()
	out := make([]moduleEntry, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleEntry{ID: m, Title: m.Title(), Agent: plan.AgentFor(m)})
	}
	utils.RespondJSON(w, http.StatusOK, out)
}
