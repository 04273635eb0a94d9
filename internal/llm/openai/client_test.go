package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resume-insight/internal/llm"
)

func TestInferReturnsCompletionContent(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": [{"message": {"role": "assistant", "content": "{\"overall_score\": 80}"}}],
			"usage": {"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120}
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", "gpt-4o-mini", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	content, err := client.Infer(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if content != `{"overall_score": 80}` {
		t.Fatalf("unexpected content: %q", content)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if format, ok := gotBody["response_format"].(map[string]any); !ok || format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", gotBody["response_format"])
	}
	if temp, ok := gotBody["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("expected temperature 0, got %v", gotBody["temperature"])
	}
}

func TestInferMapsStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, llm.ErrUnavailable},
		{"server error", http.StatusInternalServerError, llm.ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, llm.ErrUnavailable},
		{"unauthorized", http.StatusUnauthorized, llm.ErrTransport},
		{"bad request", http.StatusBadRequest, llm.ErrTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			t.Cleanup(server.Close)

			client, err := NewClient("test-key", "gpt-4o-mini", WithBaseURL(server.URL))
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}

			_, err = client.Infer(context.Background(), "prompt")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestInferTimeoutMapsToErrTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", "gpt-4o-mini", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Infer(ctx, "prompt")
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestInferRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "choices": []}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("test-key", "gpt-4o-mini", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Infer(context.Background(), "prompt")
	if !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestNewClientValidatesInputs(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
	if _, err := NewClient("key", "  "); err == nil {
		t.Fatalf("expected error for empty model")
	}
}
