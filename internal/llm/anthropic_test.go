package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/conceptor/internal/evaluation"
)

func TestAnthropicEvaluator_Evaluate_Success(t *testing.T) {
	content := "Here is the assessment:\n```json\n" + wellDefinedJSON(t) + "\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System != SystemPrompt {
			t.Errorf("Unexpected system prompt: %q", req.System)
		}
		if !strings.Contains(req.Messages[0].Content, "Homeowners wait days") {
			t.Error("Expected problem statement in prompt")
		}

		resp := anthropicResponse{
			ID:      "msg_123",
			Type:    "message",
			Role:    "assistant",
			Content: []anthropicContent{{Type: "text", Text: content}},
			Model:   "claude-3-5-sonnet-20241022",
			Usage:   anthropicUsage{InputTokens: 500, OutputTokens: 700},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
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
}

func TestAnthropicEvaluator_Evaluate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "invalid_request_error", "message": "bad model"}}`))
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	_, err = evaluator.Evaluate(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid_request_error - bad model") {
		t.Errorf("Expected API error details, got %v", err)
	}
}

func TestAnthropicEvaluator_Evaluate_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	_, err = evaluator.Evaluate(context.Background(), sampleRequest())
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("Expected 429 error, got %v", err)
	}
}

func TestAnthropicEvaluator_Evaluate_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{malformed json`))
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	if _, err := evaluator.Evaluate(context.Background(), sampleRequest()); err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}

func TestAnthropicEvaluator_Evaluate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(anthropicResponse{Type: "message"})
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	_, err = evaluator.Evaluate(context.Background(), sampleRequest())
	if err == nil || !strings.Contains(err.Error(), "no content") {
		t.Fatalf("Expected no content error, got %v", err)
	}
}

func TestAnthropicEvaluator_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "Hello"}},
		})
	}))
	defer server.Close()

	evaluator, err := NewAnthropicEvaluator(Config{APIKey: "test-key", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("Failed to create evaluator: %v", err)
	}

	if !evaluator.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if evaluator.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
