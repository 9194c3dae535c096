package chat

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/handler/httperr"
	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	chatservice "github.com/utopia-ai/advisor/backend/internal/service/chat"
	"github.com/utopia-ai/advisor/backend/pkg/utils"
)

// Engine is the subset of the conversation engine the REST surface needs.
type Engine interface {
	HandleTurn(ctx context.Context, req chatservice.TurnRequest) (*chat.TurnResult, error)
	View(ctx context.Context, sessionID string) (*chat.SessionView, error)
	Clear(ctx context.Context, sessionID string) error
}

// Handler 对话服务的HTTP处理器
type Handler struct {
	engine Engine
	logger *zap.Logger
}

// New 创建对话处理器
func New(engine Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine: engine,
		logger: logger.With(zap.String("component", "chat-handler")),
	}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleTurn)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Post("/session/{sessionID}/clear", h.handleClearSession)
}

// handleTurn 处理一次对话轮次（自由文本或问题回答）
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req chatservice.TurnRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.HandleTurn(r.Context(), req)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

// handleGetSession 返回会话面板数据
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.View(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleClearSession 重置会话
func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Clear(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.respondEngineError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Session cleared successfully"})
}

func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	status, msg := httperr.Resolve(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	utils.RespondError(w, status, msg)
}
