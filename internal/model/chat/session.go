package chat

import (
	"time"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// Session 是一次完整的顾问对话，独占其消息历史与模块上下文。
type Session struct {
	ID                  string                         `json:"id"`
	Mode                plan.Mode                      `json:"mode"`
	CurrentAgent        plan.AgentType                 `json:"currentAgent"`
	CurrentModule       plan.Module                    `json:"currentModule,omitempty"`
	ConversationHistory []Message                      `json:"conversationHistory"`
	ContextBuckets      map[plan.Module]*ContextBucket `json:"contextBuckets"`
	CreatedAt           time.Time                      `json:"createdAt"`
	LastActive          time.Time                      `json:"lastActive"`
}

// NewSession 创建一个带有全部空模块桶的新会话。
func NewSession(id string, mode plan.Mode, now time.Time) *Session {
	buckets := make(map[plan.Module]*ContextBucket, len(plan.Modules()))
	for _, m := range plan.Modules() {
		buckets[m] = NewContextBucket(m, now)
	}

	return &Session{
		ID:                  id,
		Mode:                mode,
		CurrentAgent:        plan.AgentFor(plan.DefaultModule(mode)),
		ConversationHistory: make([]Message, 0, 16),
		ContextBuckets:      buckets,
		CreatedAt:           now,
		LastActive:          now,
	}
}

// HasModule reports whether a current module has been resolved.
func (s *Session) HasModule() bool {
	return s.CurrentModule != ""
}

// Bucket returns the bucket for m, creating an empty one when missing.
func (s *Session) Bucket(m plan.Module, now time.Time) *ContextBucket {
	if s.ContextBuckets == nil {
		s.ContextBuckets = make(map[plan.Module]*ContextBucket)
	}
	bucket, ok := s.ContextBuckets[m]
	if !ok {
		bucket = NewContextBucket(m, now)
		s.ContextBuckets[m] = bucket
	}
	return bucket
}

// Append 追加一条消息；历史只追加，不重排。
func (s *Session) Append(msg Message) {
	s.ConversationHistory = append(s.ConversationHistory, msg)
}

// FindQuestion 从最新到最旧扫描助手消息，返回包含该问题的消息下标。
func (s *Session) FindQuestion(questionID string) (int, Question, bool) {
	for i := len(s.ConversationHistory) - 1; i >= 0; i-- {
		msg := s.ConversationHistory[i]
		if msg.Role != RoleAssistant {
			continue
		}
		for _, q := range msg.Questions {
			if q.ID == questionID {
				return i, q, true
			}
		}
	}
	return -1, Question{}, false
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.ConversationHistory = make([]Message, len(s.ConversationHistory))
	for i, msg := range s.ConversationHistory {
		cp.ConversationHistory[i] = msg.Clone()
	}
	cp.ContextBuckets = make(map[plan.Module]*ContextBucket, len(s.ContextBuckets))
	for m, bucket := range s.ContextBuckets {
		cp.ContextBuckets[m] = bucket.Clone()
	}
	return &cp
}
