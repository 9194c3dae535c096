// Package ws exposes the conversation engine over a websocket so clients can
// keep one connection per session.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/handler/httperr"
	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	chatservice "github.com/utopia-ai/advisor/backend/internal/service/chat"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// TurnRunner runs one conversation turn.
type TurnRunner interface {
	HandleTurn(ctx context.Context, req chatservice.TurnRequest) (*chat.TurnResult, error)
}

// Handler WebSocket对话处理器
type Handler struct {
	engine   TurnRunner
	logger   *zap.Logger
	upgrader websocket.Upgrader
	// readWait 是两次读取之间允许的最长空闲时间，轮次执行期间不计时。
	readWait time.Duration
}

// New 创建WebSocket处理器。allowedOrigins 为空或包含 "*" 时不校验来源。
func New(engine TurnRunner, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:   engine,
		logger:   logger.With(zap.String("component", "websocket")),
		readWait: pongWait,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TextMessage 自由文本消息
type TextMessage struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// handleWebSocket 处理WebSocket连接，每条入站消息同步执行一次轮次。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer wsConn.Close()
	c := &conn{ws: wsConn}

	h.logger.Info("connection opened", zap.String("session", sessionID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = wsConn.SetReadDeadline(time.Now().Add(h.readWait))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(h.readWait))
	})

	go h.pingLoop(ctx, c)

	h.send(c, "connected", sessionID, map[string]string{"sessionId": sessionID})

	for {
		var msg inboundMessage
		if err := wsConn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("read error", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		h.handleMessage(ctx, c, sessionID, msg)

		// 轮次可能长于 readWait，结束后再续期，避免下一次读取直接超时。
		_ = wsConn.SetReadDeadline(time.Now().Add(h.readWait))
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, sessionID string, msg inboundMessage) {
	req := chatservice.TurnRequest{SessionID: sessionID}

	switch msg.Type {
	case "message":
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(c, sessionID, http.StatusBadRequest, "invalid message payload")
			return
		}
		req.Message = text.Text
		req.Mode = text.Mode
	case "answer":
		var answer chatservice.AnswerInput
		if err := json.Unmarshal(msg.Data, &answer); err != nil {
			h.sendError(c, sessionID, http.StatusBadRequest, "invalid answer payload")
			return
		}
		req.QuestionResponse = &answer
	default:
		h.sendError(c, sessionID, http.StatusBadRequest, "unsupported message type")
		return
	}

	result, err := h.engine.HandleTurn(ctx, req)
	if err != nil {
		status, reason := httperr.Resolve(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("turn failed", zap.String("session", sessionID), zap.Error(err))
		}
		h.sendError(c, sessionID, status, reason)
		return
	}

	h.send(c, "turn", sessionID, result)
}

func (h *Handler) send(c *conn, msgType, sessionID string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.writeJSON(msg); err != nil {
		h.logger.Debug("write failed", zap.String("type", msgType), zap.Error(err))
	}
}

func (h *Handler) sendError(c *conn, sessionID string, status int, message string) {
	h.send(c, "error", sessionID, map[string]any{"status": status, "message": message})
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
