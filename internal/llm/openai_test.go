package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

func TestOpenAIEvaluator_Evaluate_Success(t *testing.T) {
	content := wellDefinedJSON(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
			t.Errorf("Expected JSON response format, got %+v", req.ResponseFormat)
		}
		if len(req.Messages) != 2 || req.Messages[0].Content != SystemPrompt {
			t.Errorf("Unexpected messages: %+v", req.Messages)
		}

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{TotalTokens: 900},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	ev, err := evaluator.Evaluate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if ev.Status() != evaluation.StatusWellDefined {
		t.Errorf("Expected well-defined, got %s", ev.Status())
	}
	if ev.ValidationPlan() == nil {
		t.Error("Expected validation plan to survive decoding")
	}
}

func TestOpenAIEvaluator_Evaluate_InvalidShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: `{"status":"not-well-defined","suggestions":[],"recommendations":[],"painPoints":[],"marketExistence":"","targetAudience":[],"clarityScore":{"overallScore":2,"problemClarity":2,"targetAudienceClarity":2,"scopeDefinition":2,"validationPotential":2},"languageAnalysis":{"vagueTerms":[],"missingContext":[],"ambiguousStatements":[]}}`}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	_, err = evaluator.Evaluate(context.Background(), sampleRequest())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Expected ErrMalformedResponse, got %v", err)
	}
	if !errors.Is(err, evaluation.ErrInvalid) {
		t.Errorf("Expected the validation error to be wrapped, got %v", err)
	}
}

func TestOpenAIEvaluator_Evaluate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	if _, err := evaluator.Evaluate(context.Background(), sampleRequest()); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIEvaluator_Evaluate_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	_, err = evaluator.Evaluate(context.Background(), sampleRequest())
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected wrapped *openai.APIError, got %v", err)
	}
	if apiErr.HTTPStatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", apiErr.HTTPStatusCode)
	}
}

func TestOpenAIEvaluator_Evaluate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	if _, err := evaluator.Evaluate(context.Background(), sampleRequest()); err == nil {
		t.Fatal("Expected error for empty choices, got nil")
	}
}

func TestOpenAIEvaluator_Evaluate_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	// the caller's shorter deadline wins over the configured timeout
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := evaluator.Evaluate(ctx, sampleRequest()); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIEvaluator_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEvaluator(Config{}, nil); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestOpenAIEvaluator_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	evaluator, err := NewOpenAIEvaluator(Config{APIKey: "test-key", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	if !evaluator.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if evaluator.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
