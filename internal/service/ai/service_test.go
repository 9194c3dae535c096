package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/metrics"
	"github.com/utopia-ai/advisor/backend/internal/model/agent"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// fakeChatModel records the last input and replies with a fixed message.
type fakeChatModel struct {
	reply string
	err   error
	last  []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(f.reply, nil)}), nil
}

func newTestService(t *testing.T, fake *fakeChatModel) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), fake, agent.NewMemoryStore(agent.Seed()), zap.NewNop(), metrics.New())
	require.NoError(t, err)
	return svc
}

func TestGenerateInjectsPersonaAndContext(t *testing.T) {
	fake := &fakeChatModel{reply: "Let's talk numbers. [QUESTION:capital:numeric:How much capital?]"}
	svc := newTestService(t, fake)

	out, err := svc.Generate(context.Background(), plan.FinanceAgent, "what should I charge?", "Current module: financial_plan\nModule data: {\"price\":\"10\"}\n")
	require.NoError(t, err)
	assert.Equal(t, fake.reply, out)

	require.Len(t, fake.last, 2)
	assert.Equal(t, schema.System, fake.last[0].Role)
	assert.Contains(t, fake.last[0].Content, "FinanceAgentGPT")
	assert.Contains(t, fake.last[0].Content, "[QUESTION:id:type:text]")
	assert.Contains(t, fake.last[0].Content, `{"price":"10"}`)
	assert.Equal(t, "what should I charge?", fake.last[1].Content)
}

func TestGenerateUnknownAgent(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: "x"})
	_, err := svc.Generate(context.Background(), plan.AgentType("legal"), "hi", "")
	assert.Error(t, err)
}

func TestGeneratePropagatesModelFailure(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{err: errors.New("upstream timeout")})
	_, err := svc.Generate(context.Background(), plan.IdeaAgent, "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
}

func TestExtractParsesJSONObject(t *testing.T) {
	fake := &fakeChatModel{reply: "Sure! ```json\n{\"target_customer\": \"freelancers\", \"budget\": 1200, \"remote\": true, \"note\": null}\n```"}
	svc := newTestService(t, fake)

	facts, err := svc.Extract(context.Background(), "User: ...\nAssistant: ...", plan.TargetMarket)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"target_customer": "freelancers",
		"budget":          "1200",
		"remote":          "true",
	}, facts)
	assert.Contains(t, fake.last[1].Content, "target_market")
}

func TestExtractDegradesToEmptyOnGarbage(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: "I could not find anything"})
	facts, err := svc.Extract(context.Background(), "text", plan.IdeaConcept)
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestSummarizeSortsFacts(t *testing.T) {
	fake := &fakeChatModel{reply: "  A subscription app for freelancers.  "}
	svc := newTestService(t, fake)

	summary, err := svc.Summarize(context.Background(), plan.BusinessModel, map[string]string{"b": "2", "a": "1"})
	require.NoError(t, err)
	assert.Equal(t, "A subscription app for freelancers.", summary)
	assert.Contains(t, fake.last[1].Content, "- a: 1\n- b: 2\n")
}

func TestBuildSystemPromptListsOwnedModules(t *testing.T) {
	pm := NewPromptManager(agent.NewMemoryStore(agent.Seed()))
	text, err := pm.BuildSystemPrompt(plan.StrategyAgent)
	require.NoError(t, err)
	assert.Contains(t, text, "Target Market, Value Proposition, Business Model, Marketing Strategy")
	assert.Contains(t, text, "[OPTIONS:Local|Regional|National|Global]")
	assert.Contains(t, text, "a Business Strategist")
}

func TestParseExtractionNested(t *testing.T) {
	facts, err := parseExtraction(`{"channels": ["web", "retail"], "  ": "skip", "empty": ""}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"channels": `["web","retail"]`}, facts)

	_, err = parseExtraction("no json here")
	assert.Error(t, err)
}
