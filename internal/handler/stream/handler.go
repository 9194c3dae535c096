package stream

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

// TurnRunner runs one conversation turn.
type TurnRunner interface {
	HandleTurn(ctx context.Context, req chatservice.TurnRequest) (*chat.TurnResult, error)
}

// Handler delivers a turn result as a sequence of Server-Sent Events.
type Handler struct {
	engine TurnRunner
	logger *zap.Logger
}

// New creates a new stream handler
func New(engine TurnRunner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine: engine,
		logger: logger.With(zap.String("component", "stream")),
	}
}

// RegisterRoutes 注册SSE路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// Event payloads.
type (
	startEvent struct {
		SessionID string `json:"sessionId"`
	}
	messageEvent struct {
		SessionID          string `json:"sessionId"`
		Content            string `json:"content"`
		Agent              string `json:"agent"`
		CurrentModule      string `json:"currentModule,omitempty"`
		IsModuleTransition bool   `json:"isModuleTransition"`
	}
	endEvent struct {
		SessionID string `json:"sessionId"`
		Finished  bool   `json:"finished"`
	}
	errorEvent struct {
		Status int    `json:"status"`
		Error  string `json:"error"`
	}
)

// handleStream 以 SSE 形式执行一次自由文本轮次：start, message, questions, modules, end。
// 失败时发送 error 事件并结束流。
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	utils.SendSSEEvent(w, flusher, "start", startEvent{SessionID: sessionID})

	result, err := h.engine.HandleTurn(r.Context(), chatservice.TurnRequest{
		SessionID: sessionID,
		Mode:      r.URL.Query().Get("mode"),
		Message:   message,
	})
	if err != nil {
		status, msg := httperr.Resolve(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("stream turn failed", zap.String("session", sessionID), zap.Error(err))
		}
		utils.SendSSEEvent(w, flusher, "error", errorEvent{Status: status, Error: msg})
		return
	}

	utils.SendSSEEvent(w, flusher, "message", messageEvent{
		SessionID:          result.SessionID,
		Content:            result.Message,
		Agent:              string(result.Agent),
		CurrentModule:      string(result.CurrentModule),
		IsModuleTransition: result.IsModuleTransition,
	})
	if len(result.Questions) > 0 {
		utils.SendSSEEvent(w, flusher, "questions", result.Questions)
	}
	if len(result.UpdatedModules) > 0 {
		utils.SendSSEEvent(w, flusher, "modules", result.UpdatedModules)
	}
	utils.SendSSEEvent(w, flusher, "end", endEvent{SessionID: result.SessionID, Finished: true})

	h.logger.Debug("stream completed", zap.String("session", result.SessionID))
}
