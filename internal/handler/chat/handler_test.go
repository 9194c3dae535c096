package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
	chatservice "github.com/utopia-ai/advisor/backend/internal/service/chat"
	"github.com/utopia-ai/advisor/backend/internal/store"
)

type scriptedGenerator struct {
	reply string
	err   error
}

func (g *scriptedGenerator) Generate(context.Context, plan.AgentType, string, string) (string, error) {
	return g.reply, g.err
}

type noFacts struct{}

func (noFacts) Extract(context.Context, string, plan.Module) (map[string]string, error) {
	return map[string]string{}, nil
}

func (noFacts) Summarize(context.Context, plan.Module, map[string]string) (string, error) {
	return "", nil
}

func setupRouter(gen *scriptedGenerator) *chi.Mux {
	engine := chatservice.NewEngine(store.NewMemoryStore(), gen, noFacts{}, noFacts{}, chatservice.DefaultOptions(), zap.NewNop(), nil)
	r := chi.NewRouter()
	New(engine, zap.NewNop()).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestChatCreatesSessionAndReturnsQuestions(t *testing.T) {
	r := setupRouter(&scriptedGenerator{reply: "Welcome! [QUESTION:idea:open:What is your idea?]"})

	rec := do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "abc", "message": "hello", "mode": "entrepreneur"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "abc", res.SessionID)
	assert.Equal(t, "Welcome!", res.Message)
	assert.Equal(t, plan.IdeaConcept, res.CurrentModule)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, chat.QuestionOpen, res.Questions[0].Type)

	rec = do(t, r, http.MethodGet, "/session/abc", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view chat.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.ConversationHistory, 2)
	assert.Len(t, view.PendingQuestions, 1)
	assert.Len(t, view.Modules, len(plan.Modules()))
}

func TestChatRejectsBadRequests(t *testing.T) {
	r := setupRouter(&scriptedGenerator{reply: "ok"})

	rec := do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{
		"message":          "hi",
		"questionResponse": map[string]string{"questionId": "q", "answer": "a"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{not json"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAnswerFlowStatuses(t *testing.T) {
	r := setupRouter(&scriptedGenerator{reply: "[QUESTION:cap:numeric:How much capital?]"})

	rec := do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	qid := res.Questions[0].ID

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "questionResponse": map[string]string{"questionId": qid, "answer": "lots"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"please enter a valid number"}`, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "questionResponse": map[string]string{"questionId": "nope", "answer": "1"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "questionResponse": map[string]string{"questionId": qid, "answer": "25000"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnswerAcceptsClientTimestamp(t *testing.T) {
	r := setupRouter(&scriptedGenerator{reply: "[QUESTION:cap:numeric:How much capital?]"})

	rec := do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Questions, 1)
	qid := res.Questions[0].ID

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{
		"sessionId": "s",
		"questionResponse": map[string]any{
			"questionId": qid,
			"answer":     "25000",
			"timestamp":  "2024-05-01T09:00:00Z",
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, "/chat", map[string]any{
		"sessionId":        "s",
		"questionResponse": map[string]any{"questionId": qid, "answer": "30000", "timestamp": 1714554000000},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCollaboratorFailureIsBadGateway(t *testing.T) {
	r := setupRouter(&scriptedGenerator{err: errors.New("model unavailable")})

	rec := do(t, r, http.MethodPost, "/chat", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "model unavailable")
}

func TestSessionReadAndClear(t *testing.T) {
	r := setupRouter(&scriptedGenerator{reply: "ok"})

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/session/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/session/missing/clear", nil).Code)

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/chat", map[string]any{"sessionId": "s", "message": "hi", "mode": "consultant"}).Code)

	rec := do(t, r, http.MethodPost, "/session/s/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Session cleared successfully"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/session/s", nil)
	var view chat.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, plan.Consultant, view.Mode)
	assert.Empty(t, view.ConversationHistory)
}
