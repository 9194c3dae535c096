// Package chat implements the per-turn conversation engine: it routes each
// turn to an agent and module, composes model context, parses the inline
// question protocol and folds extracted facts back into the session.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/analysis/module"
	"github.com/utopia-ai/advisor/backend/internal/analysis/question"
	"github.com/utopia-ai/advisor/backend/internal/analysis/routing"
	"github.com/utopia-ai/advisor/backend/internal/metrics"
	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
	"github.com/utopia-ai/advisor/backend/internal/store"
)

// Generator produces the agent reply for a turn.
type Generator interface {
	Generate(ctx context.Context, agent plan.AgentType, prompt, contextText string) (string, error)
}

// Extractor pulls structured facts for a module out of conversation text.
type Extractor interface {
	Extract(ctx context.Context, text string, target plan.Module) (map[string]string, error)
}

// Summarizer writes a prose summary of a module's facts.
type Summarizer interface {
	Summarize(ctx context.Context, target plan.Module, data map[string]string) (string, error)
}

// Options holds engine policy knobs.
type Options struct {
	CompleteThreshold int
	HistoryViewLimit  int
	Validator         question.Validator
}

// DefaultOptions returns the stock policy.
func DefaultOptions() Options {
	return Options{
		CompleteThreshold: 5,
		HistoryViewLimit:  10,
		Validator:         question.NewValidator(),
	}
}

// AnswerInput is a client answer to a previously emitted question.
// Timestamp 为客户端回传的时间，可为字符串或数字；服务端以自身时钟记录应答时间。
type AnswerInput struct {
	QuestionID string          `json:"questionId"`
	Answer     string          `json:"answer"`
	Timestamp  json.RawMessage `json:"timestamp,omitempty"`
}

// TurnRequest carries exactly one of Message or QuestionResponse.
type TurnRequest struct {
	SessionID        string       `json:"sessionId,omitempty"`
	Mode             string       `json:"mode,omitempty"`
	Message          string       `json:"message,omitempty"`
	QuestionResponse *AnswerInput `json:"questionResponse,omitempty"`
}

var newID = func() string {
	return uuid.NewString()
}

// Engine 是对话编排引擎。会话状态只存在于 Store 中，引擎本身无共享可变状态（除轮次锁外）。
type Engine struct {
	store      store.Store
	generator  Generator
	extractor  Extractor
	summarizer Summarizer
	resolver   *module.Resolver
	opts       Options
	locks      *turnLocks
	logger     *zap.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewEngine wires the engine to its collaborators. logger and m may be nil.
func NewEngine(s store.Store, gen Generator, ext Extractor, sum Summarizer, opts Options, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CompleteThreshold < 1 {
		opts.CompleteThreshold = 5
	}
	if opts.HistoryViewLimit < 1 {
		opts.HistoryViewLimit = 10
	}

	return &Engine{
		store:      s,
		generator:  gen,
		extractor:  ext,
		summarizer: sum,
		resolver:   module.NewResolver(),
		opts:       opts,
		locks:      newTurnLocks(),
		logger:     logger.With(zap.String("component", "engine")),
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// HandleTurn dispatches a request to the message or answer path.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (*chat.TurnResult, error) {
	hasMessage := strings.TrimSpace(req.Message) != ""
	hasAnswer := req.QuestionResponse != nil

	switch {
	case hasMessage && hasAnswer, !hasMessage && !hasAnswer:
		return nil, newError(KindBadRequest, ErrAmbiguousInput.Error(), ErrAmbiguousInput)
	case hasAnswer:
		return e.AnswerQuestion(ctx, req.SessionID, *req.QuestionResponse)
	default:
		mode, ok := plan.ParseMode(req.Mode)
		if !ok {
			return nil, newError(KindBadRequest, fmt.Sprintf("unknown mode %q", req.Mode), nil)
		}
		return e.ProcessMessage(ctx, req.SessionID, mode, req.Message)
	}
}

// ProcessMessage runs the free-text path. An empty or unknown sessionID
// creates a session; mode only applies to newly created sessions.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID string, mode plan.Mode, text string) (result *chat.TurnResult, err error) {
	defer func() { e.metrics.ObserveTurn(metrics.PathMessage, outcomeOf(err)) }()

	if strings.TrimSpace(text) == "" {
		return nil, newError(KindBadRequest, "message cannot be empty", nil)
	}
	if sessionID == "" {
		sessionID = newID()
	}

	unlock, err := e.locks.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := e.loadOrCreate(ctx, sessionID, mode)
	if err != nil {
		return nil, err
	}

	now := e.now()
	session.Append(chat.Message{
		ID:        newID(),
		Role:      chat.RoleUser,
		Content:   text,
		Timestamp: now,
	})

	override, _ := e.resolver.DetectRequest(text)
	previous := session.CurrentModule
	decision := routing.Decide(routing.State{
		Mode:          session.Mode,
		CurrentAgent:  session.CurrentAgent,
		CurrentModule: session.CurrentModule,
	}, override)

	e.logger.Info("agent decision",
		zap.String("session", sessionID),
		zap.String("agent", string(decision.Agent)),
		zap.String("module", string(decision.Module)),
		zap.String("previousModule", string(previous)),
		zap.Bool("isTransition", decision.IsTransition),
	)

	session.CurrentAgent = decision.Agent
	session.CurrentModule = decision.Module

	contextText := Compose(session)
	if decision.IsTransition {
		contextText = transitionPreamble(previous, decision.Module, session.ContextBuckets[previous]) + contextText
	}

	reply, err := e.generator.Generate(ctx, decision.Agent, text, contextText)
	if err != nil {
		return nil, e.collaboratorFailure("generate", sessionID, err)
	}

	result, err = e.completeTurn(ctx, session, reply, "User: "+text, now)
	if err != nil {
		return nil, err
	}
	result.IsModuleTransition = decision.IsTransition
	if decision.IsTransition {
		e.metrics.ObserveTransition(string(previous), string(decision.Module))
	}
	return result, nil
}

// AnswerQuestion runs the question-answer path. Rejected answers and unknown
// questions leave the stored session untouched.
func (e *Engine) AnswerQuestion(ctx context.Context, sessionID string, in AnswerInput) (result *chat.TurnResult, err error) {
	defer func() { e.metrics.ObserveTurn(metrics.PathAnswer, outcomeOf(err)) }()

	if strings.TrimSpace(in.QuestionID) == "" {
		return nil, newError(KindBadRequest, "questionId is required", nil)
	}

	unlock, err := e.locks.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, ErrQuestionNotFound.Error(), ErrQuestionNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	idx, q, ok := session.FindQuestion(in.QuestionID)
	if !ok {
		return nil, newError(KindNotFound, ErrQuestionNotFound.Error(), ErrQuestionNotFound)
	}

	if err := e.opts.Validator.Validate(q, in.Answer); err != nil {
		var rejection *question.Rejection
		if errors.As(err, &rejection) {
			return nil, newError(KindValidation, rejection.Reason, err)
		}
		return nil, newError(KindValidation, err.Error(), err)
	}

	now := e.now()
	resp := chat.QuestionResponse{
		QuestionID: q.ID,
		Answer:     strings.TrimSpace(in.Answer),
		Timestamp:  now,
	}
	session.ConversationHistory[idx].Responses = append(session.ConversationHistory[idx].Responses, resp)

	formatted := question.FormatForAI(q, resp)
	followUp := question.FollowUp(q, resp)
	contextText := Compose(session) + "\n\nUser just answered a question:\n" + formatted + "\n\n" + followUp

	reply, err := e.generator.Generate(ctx, session.CurrentAgent, followUp, contextText)
	if err != nil {
		return nil, e.collaboratorFailure("generate", sessionID, err)
	}

	result, err = e.completeTurn(ctx, session, reply, formatted, now)
	if err != nil {
		return nil, err
	}
	result.IsModuleTransition = false
	return result, nil
}

// completeTurn 解析回复、追加助手消息、提取并合并模块事实，最后一次性持久化。
// 任何协作方失败都在持久化之前返回，存储中的会话保持原状。
func (e *Engine) completeTurn(ctx context.Context, session *chat.Session, reply, exchange string, now time.Time) (*chat.TurnResult, error) {
	parsed := question.Decode(reply)
	for _, q := range parsed.Questions {
		e.metrics.ObserveQuestion(string(q.Type))
	}

	assistant := chat.Message{
		ID:        newID(),
		Role:      chat.RoleAssistant,
		Content:   parsed.Text,
		Agent:     string(session.CurrentAgent),
		Module:    string(session.CurrentModule),
		Timestamp: now,
	}
	if len(parsed.Questions) > 0 {
		assistant.Questions = parsed.Questions
	}
	session.Append(assistant)

	updated := make([]chat.ModuleUpdate, 0, 1)
	if session.HasModule() {
		update, changed, err := e.updateModule(ctx, session, exchange+"\nAssistant: "+parsed.Text, now)
		if err != nil {
			return nil, err
		}
		if changed {
			updated = append(updated, update)
		}
	}

	session.LastActive = now
	if err := e.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session %s: %w", session.ID, err)
	}

	questions := parsed.Questions
	if questions == nil {
		questions = []chat.Question{}
	}
	return &chat.TurnResult{
		Message:        parsed.Text,
		SessionID:      session.ID,
		Agent:          session.CurrentAgent,
		CurrentModule:  session.CurrentModule,
		UpdatedModules: updated,
		Questions:      questions,
	}, nil
}

func (e *Engine) updateModule(ctx context.Context, session *chat.Session, text string, now time.Time) (chat.ModuleUpdate, bool, error) {
	current := session.CurrentModule

	facts, err := e.extractor.Extract(ctx, text, current)
	if err != nil {
		return chat.ModuleUpdate{}, false, e.collaboratorFailure("extract", session.ID, err)
	}
	if len(facts) == 0 {
		return chat.ModuleUpdate{}, false, nil
	}

	summary, err := e.summarizer.Summarize(ctx, current, facts)
	if err != nil {
		return chat.ModuleUpdate{}, false, e.collaboratorFailure("summarize", session.ID, err)
	}

	bucket := session.Bucket(current, now)
	bucket.Merge(facts, summary, e.opts.CompleteThreshold, now)

	data := make(map[string]string, len(bucket.Data))
	for k, v := range bucket.Data {
		data[k] = v
	}
	return chat.ModuleUpdate{
		ModuleType:       current,
		Data:             data,
		Summary:          bucket.Summary,
		CompletionStatus: bucket.CompletionStatus,
	}, true, nil
}

// View returns the dashboard projection of a session.
func (e *Engine) View(ctx context.Context, sessionID string) (*chat.SessionView, error) {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, ErrSessionNotFound.Error(), ErrSessionNotFound)
		}
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	modules := make([]chat.ModuleView, 0, len(plan.Modules()))
	for _, m := range plan.Modules() {
		bucket, ok := session.ContextBuckets[m]
		if !ok || bucket == nil {
			continue
		}
		modules = append(modules, chat.ModuleView{
			ModuleType:       m,
			Data:             bucket.Data,
			Summary:          bucket.Summary,
			CompletionStatus: bucket.CompletionStatus,
			LastUpdated:      bucket.LastUpdated.Format(time.RFC3339),
		})
	}

	history := session.ConversationHistory
	if len(history) > e.opts.HistoryViewLimit {
		history = history[len(history)-e.opts.HistoryViewLimit:]
	}

	return &chat.SessionView{
		SessionID:           session.ID,
		Mode:                session.Mode,
		CurrentAgent:        session.CurrentAgent,
		CurrentModule:       session.CurrentModule,
		Modules:             modules,
		ConversationHistory: history,
		PendingQuestions:    pendingQuestions(session),
	}, nil
}

// Clear 以相同 ID 和模式重建会话，丢弃历史与全部模块数据。
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	unlock, err := e.locks.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindNotFound, ErrSessionNotFound.Error(), ErrSessionNotFound)
		}
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}

	fresh := chat.NewSession(session.ID, session.Mode, e.now())
	if err := e.store.Put(ctx, fresh); err != nil {
		return fmt.Errorf("persist cleared session %s: %w", sessionID, err)
	}
	e.logger.Info("session cleared", zap.String("session", sessionID), zap.String("mode", string(session.Mode)))
	return nil
}

func (e *Engine) loadOrCreate(ctx context.Context, sessionID string, mode plan.Mode) (*chat.Session, error) {
	session, err := e.store.Get(ctx, sessionID)
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, store.ErrNotFound):
		e.logger.Info("session created", zap.String("session", sessionID), zap.String("mode", string(mode)))
		return chat.NewSession(sessionID, mode, e.now()), nil
	default:
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
}

func (e *Engine) collaboratorFailure(op, sessionID string, err error) error {
	e.logger.Error("collaborator call failed",
		zap.String("op", op),
		zap.String("session", sessionID),
		zap.Error(err),
	)
	return newError(KindCollaborator, "the advisor is temporarily unavailable, please try again", fmt.Errorf("%s: %w", op, err))
}

func pendingQuestions(session *chat.Session) []chat.Question {
	pending := make([]chat.Question, 0)
	for _, msg := range session.ConversationHistory {
		if msg.Role != chat.RoleAssistant || len(msg.Questions) == 0 {
			continue
		}
		pending = append(pending, question.Unanswered(msg.Questions, msg.Responses)...)
	}
	return pending
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	switch KindOf(err) {
	case KindValidation, KindBadRequest:
		return metrics.OutcomeRejected
	case KindNotFound:
		return metrics.OutcomeNotFound
	case KindCollaborator:
		return metrics.OutcomeCollaborator
	default:
		return metrics.OutcomeError
	}
}
