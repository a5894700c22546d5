// Package llm asks a language model to assess a concept's problem statement
// and turns the answer into a validated evaluation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

// ErrMalformedResponse is returned when the model's answer is not a valid
// evaluation document.
var ErrMalformedResponse = errors.New("malformed evaluation response")

// Evaluator produces an evaluation for one submission.
type Evaluator interface {
	// Name returns the provider name
	Name() string

	// Evaluate asks the model to assess the request.
	Evaluate(ctx context.Context, req Request) (*evaluation.Evaluation, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request carries the concept fields the model sees.
type Request struct {
	Problem     string
	Persona     string
	Region      string
	ProductType string
	Stage       string

	// Model overrides the configured model when set.
	Model string

	// MaxTokens overrides the configured limit when set.
	MaxTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     60,
		MaxTokens:   2000,
		Temperature: 0.2,
	}
}

func (c Config) model(req Request, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(req Request) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 2000
}

// SystemPrompt frames every evaluation request.
const SystemPrompt = "You are an experienced product strategist. You assess startup problem statements for clarity and validation potential and answer with a single JSON object, nothing else."

// BuildPrompt renders the user prompt for req.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Evaluate the following problem statement.\n\n")
	fmt.Fprintf(&b, "Problem: %s\n", req.Problem)
	fmt.Fprintf(&b, "Persona: %s\n", req.Persona)
	fmt.Fprintf(&b, "Region: %s\n", orUnknown(req.Region))
	fmt.Fprintf(&b, "Product type: %s\n", orUnknown(req.ProductType))
	fmt.Fprintf(&b, "Stage: %s\n\n", orUnknown(req.Stage))

	b.WriteString(`Pick exactly one status:
- "well-defined": the problem is clear. painPoints, marketExistence and targetAudience must be filled.
- "requires_changes": promising but incomplete. suggestions, recommendations, painPoints and targetAudience must be filled.
- "not-well-defined": too vague to assess. Fill suggestions only; recommendations, painPoints and targetAudience must be empty arrays and marketExistence an empty string.

Every score is an integer from 1 to 10. riskLevel is "low", "medium" or "high".

Answer with JSON of this shape:
{
  "status": "...",
  "suggestions": ["..."],
  "recommendations": ["..."],
  "painPoints": ["..."],
  "marketExistence": "...",
  "targetAudience": [{"segment": "...", "description": "...", "challenges": ["..."],
    "validationMetrics": {"marketSize": "...", "accessibility": 1, "painPointIntensity": 1, "willingnessToPay": 1}}],
  "clarityScore": {"overallScore": 1, "problemClarity": 1, "targetAudienceClarity": 1, "scopeDefinition": 1, "validationPotential": 1},
  "languageAnalysis": {"vagueTerms": ["..."], "missingContext": ["..."], "ambiguousStatements": ["..."]},
  "assumptionsAnalysis": {"coreAssumptions": [{"assumption": "...", "testability": 1, "riskLevel": "low", "validationMethod": "..."}], "dependencies": ["..."]},
  "hypothesisFramework": {"format": "...", "hypotheses": [{"statement": "...", "successCriteria": "...", "metrics": ["..."]}]},
  "validationPlan": {"steps": [{"name": "...", "description": "...", "method": "...", "successCriteria": ["..."]}], "timeline": "...", "resources": ["..."]}
}
assumptionsAnalysis, hypothesisFramework and validationPlan are optional.`)

	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}

// ParseEvaluation extracts the JSON object from a model answer and validates
// it. Markdown code fences and surrounding prose are ignored.
func ParseEvaluation(raw string) (*evaluation.Evaluation, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}

	ev, err := evaluation.Decode([]byte(raw[start : end+1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return ev, nil
}
