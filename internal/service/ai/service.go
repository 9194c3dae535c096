// Package ai wraps the chat model behind the three collaborators the
// conversation engine consumes: reply generation, fact extraction and
// module summarization.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/utopia-ai/advisor/backend/internal/metrics"
	"github.com/utopia-ai/advisor/backend/internal/model/agent"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

type chain = compose.Runnable[map[string]any, *schema.Message]

// Service 封装基于 eino 的对话、事实提取与摘要三条调用链。
type Service struct {
	prompts   *PromptManager
	reply     chain
	extractor chain
	summarist chain
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewService compiles the chains against chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, agents agent.Store, logger *zap.Logger, m *metrics.Metrics) (*Service, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// 所有文本都经由变量注入，避免 JSON 中的花括号被 FString 模板解析。
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	compile := func(name string) (chain, error) {
		c := compose.NewChain[map[string]any, *schema.Message]()
		c.AppendChatTemplate(template)
		c.AppendChatModel(chatModel)
		runnable, err := c.Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s chain: %w", name, err)
		}
		return runnable, nil
	}

	reply, err := compile("reply")
	if err != nil {
		return nil, err
	}
	extractor, err := compile("extraction")
	if err != nil {
		return nil, err
	}
	summarist, err := compile("summary")
	if err != nil {
		return nil, err
	}

	return &Service{
		prompts:   NewPromptManager(agents),
		reply:     reply,
		extractor: extractor,
		summarist: summarist,
		logger:    logger.With(zap.String("component", "ai")),
		metrics:   m,
	}, nil
}

// Generate asks the agent persona for a reply to promptText, grounded on contextText.
func (s *Service) Generate(ctx context.Context, agentType plan.AgentType, promptText, contextText string) (string, error) {
	system, err := s.prompts.BuildSystemPrompt(agentType)
	if err != nil {
		return "", fmt.Errorf("build system prompt: %w", err)
	}
	if strings.TrimSpace(contextText) != "" {
		system += "\n\nCurrent business plan context:\n" + contextText
	}

	done := s.metrics.TimeCall("generate")
	msg, err := s.reply.Invoke(ctx, map[string]any{"system": system, "query": promptText})
	done()
	if err != nil {
		return "", fmt.Errorf("failed to run reply chain: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("reply chain returned no message")
	}

	s.logger.Debug("generated reply", zap.String("agent", string(agentType)), zap.Int("length", len(msg.Content)))
	return msg.Content, nil
}

// Extract pulls key facts for module out of text. An unparseable model
// answer yields an empty map rather than an error.
func (s *Service) Extract(ctx context.Context, text string, module plan.Module) (map[string]string, error) {
	query := fmt.Sprintf("Business plan section: %s (%s)\n\nConversation:\n%s", module.Title(), module, text)

	done := s.metrics.TimeCall("extract")
	msg, err := s.extractor.Invoke(ctx, map[string]any{"system": extractionSystemPrompt, "query": query})
	done()
	if err != nil {
		return nil, fmt.Errorf("failed to run extraction chain: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return map[string]string{}, nil
	}

	facts, err := parseExtraction(msg.Content)
	if err != nil {
		s.logger.Warn("extraction output parse failed", zap.String("module", string(module)), zap.Error(err))
		return map[string]string{}, nil
	}
	return facts, nil
}

// Summarize produces a short prose summary of the module's facts.
func (s *Service) Summarize(ctx context.Context, module plan.Module, data map[string]string) (string, error) {
	query := fmt.Sprintf("Business plan section: %s\n\nFacts:\n%s", module.Title(), renderFacts(data))

	done := s.metrics.TimeCall("summarize")
	msg, err := s.summarist.Invoke(ctx, map[string]any{"system": summarySystemPrompt, "query": query})
	done()
	if err != nil {
		return "", fmt.Errorf("failed to run summary chain: %w", err)
	}
	if msg == nil {
		return "", nil
	}
	return strings.TrimSpace(msg.Content), nil
}

const extractionSystemPrompt = "You extract structured business plan facts from a conversation. " +
	"Return only one JSON object whose keys are short snake_case fact names (for example target_customer, price_point) " +
	"and whose values are concise strings. Only include facts the user stated or confirmed. " +
	"Return {} when there is nothing to extract. Do not output any other text."

const summarySystemPrompt = "You summarize one section of a business plan in two or three plain sentences " +
	"for the founder. Use only the facts provided. Do not add headings or lists."
