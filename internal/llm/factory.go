package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/conceptor/internal/logging"
)

// NewEvaluator creates the evaluator named by config.Provider. An empty
// provider returns nil, nil: evaluation is disabled.
func NewEvaluator(config Config, log *logging.Logger) (Evaluator, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIEvaluator(config, log)

	case "anthropic", "claude":
		return NewAnthropicEvaluator(config, log)

	case "ollama":
		return NewOllamaEvaluator(config, log)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
