package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/conceptor/internal/evaluation"
	"github.com/ppiankov/conceptor/internal/logging"
)

// OpenAIEvaluator implements Evaluator on the Chat Completions API in JSON
// mode.
type OpenAIEvaluator struct {
	client *openai.Client
	config Config
	log    *logging.Logger
}

// NewOpenAIEvaluator creates a new OpenAI evaluator
func NewOpenAIEvaluator(config Config, log *logging.Logger) (*OpenAIEvaluator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if log == nil {
		log = logging.NewNop()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		log:    log,
	}, nil
}

func (p *OpenAIEvaluator) Name() string {
	return "openai"
}

// IsAvailable lists models as a cheap credentials check.
func (p *OpenAIEvaluator) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		p.log.Warn("OpenAI API check failed", "error", err)
		return false
	}
	return true
}

func (p *OpenAIEvaluator) Evaluate(ctx context.Context, req Request) (*evaluation.Evaluation, error) {
	model := p.config.model(req, openai.GPT4oMini)

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   p.config.maxTokens(req),
		Temperature: float32(p.config.Temperature),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	p.log.Debug("openai evaluation received", "model", resp.Model, "tokens", resp.Usage.TotalTokens)
	return ParseEvaluation(resp.Choices[0].Message.Content)
}
