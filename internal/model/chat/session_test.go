package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

func TestNewSessionInitialisesEmptyBuckets(t *testing.T) {
	now := time.Now().UTC()
	s := NewSession("s-1", plan.Consultant, now)

	assert.Equal(t, plan.Consultant, s.Mode)
	assert.Equal(t, plan.StrategyAgent, s.CurrentAgent)
	assert.False(t, s.HasModule())
	require.Len(t, s.ContextBuckets, len(plan.Modules()))
	for _, m := range plan.Modules() {
		bucket := s.ContextBuckets[m]
		require.NotNil(t, bucket)
		assert.Equal(t, plan.StatusEmpty, bucket.CompletionStatus)
		assert.Empty(t, bucket.Data)
	}
}

func TestMergeIsAdditive(t *testing.T) {
	now := time.Now().UTC()
	bucket := NewContextBucket(plan.TargetMarket, now)

	bucket.Merge(map[string]string{"a": "1"}, "first", 5, now)
	bucket.Merge(map[string]string{"b": "2"}, "", 5, now.Add(time.Minute))

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, bucket.Data)
	assert.Equal(t, "first", bucket.Summary)
	assert.Equal(t, plan.StatusPartial, bucket.CompletionStatus)

	bucket.Merge(map[string]string{"a": "3"}, "second", 2, now)
	assert.Equal(t, "3", bucket.Data["a"])
	assert.Equal(t, "second", bucket.Summary)
	assert.Equal(t, plan.StatusComplete, bucket.CompletionStatus)
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now().UTC()
	s := NewSession("s-1", plan.Entrepreneur, now)
	s.Append(Message{
		ID:        "m1",
		Role:      RoleAssistant,
		Questions: []Question{{ID: "q1", Type: QuestionChoice, Options: []string{"A", "B"}}},
	})
	s.ContextBuckets[plan.IdeaConcept].Merge(map[string]string{"k": "v"}, "", 5, now)

	cp := s.Clone()
	cp.ConversationHistory[0].Questions[0].Options[0] = "Z"
	cp.ConversationHistory[0].Responses = append(cp.ConversationHistory[0].Responses, QuestionResponse{QuestionID: "q1"})
	cp.ContextBuckets[plan.IdeaConcept].Data["k"] = "changed"
	cp.Append(Message{ID: "m2"})

	assert.Equal(t, "A", s.ConversationHistory[0].Questions[0].Options[0])
	assert.Empty(t, s.ConversationHistory[0].Responses)
	assert.Equal(t, "v", s.ContextBuckets[plan.IdeaConcept].Data["k"])
	assert.Len(t, s.ConversationHistory, 1)
}

func TestFindQuestionPrefersMostRecent(t *testing.T) {
	s := NewSession("s-1", plan.Entrepreneur, time.Now())
	s.Append(Message{ID: "old", Role: RoleAssistant, Questions: []Question{{ID: "q1", Text: "old"}}})
	s.Append(Message{ID: "user", Role: RoleUser})
	s.Append(Message{ID: "new", Role: RoleAssistant, Questions: []Question{{ID: "q1", Text: "new"}}})

	idx, q, ok := s.FindQuestion("q1")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "new", q.Text)

	_, _, ok = s.FindQuestion("missing")
	assert.False(t, ok)
}

func TestParseQuestionType(t *testing.T) {
	for _, raw := range []string{"open", "choice", "numeric", "yes_no"} {
		_, ok := ParseQuestionType(raw)
		assert.True(t, ok, raw)
	}
	_, ok := ParseQuestionType("rating")
	assert.False(t, ok)
}
