package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"resume-insight/internal/llm"
)

func TestClassifyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"deadline sentinel", context.DeadlineExceeded, llm.ErrTimeout},
		{"wrapped deadline sentinel", fmt.Errorf("generate content: %w", context.DeadlineExceeded), llm.ErrTimeout},
		{"deadline in message", errors.New("rpc error: code = DeadlineExceeded desc = context deadline exceeded"), llm.ErrTimeout},
		{"timeout in message", errors.New("Post \"https://generativelanguage.googleapis.com\": request timeout"), llm.ErrTimeout},
		{"http 429", errors.New("Error 429: quota exceeded for requests per minute"), llm.ErrUnavailable},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = Resource exhausted"), llm.ErrUnavailable},
		{"service unavailable", errors.New("rpc error: code = Unavailable desc = the service is currently unavailable"), llm.ErrUnavailable},
		{"http 500", errors.New("Error 500: internal error encountered"), llm.ErrUnavailable},
		{"http 503", errors.New("Error 503: service temporarily down"), llm.ErrUnavailable},
		{"model overloaded", errors.New("the model is overloaded, please try again later"), llm.ErrUnavailable},
		{"invalid api key", errors.New("Error 400: API key not valid"), llm.ErrTransport},
		{"permission denied", errors.New("rpc error: code = PermissionDenied desc = caller lacks permission"), llm.ErrTransport},
		{"connection refused", errors.New("dial tcp: connection refused"), llm.ErrTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyErr(tc.err)
			if !errors.Is(got, tc.want) {
				t.Fatalf("classifyErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
			if !llm.Retryable(got) && (errors.Is(tc.want, llm.ErrTimeout) || errors.Is(tc.want, llm.ErrUnavailable)) {
				t.Fatalf("expected %v to be retryable", got)
			}
			if llm.Retryable(got) && errors.Is(tc.want, llm.ErrTransport) {
				t.Fatalf("transport error %v must not be retryable", got)
			}
		})
	}
}

func TestInfer_UninitializedClient(t *testing.T) {
	var nilClient *Client
	if _, err := nilClient.Infer(context.Background(), "prompt"); !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("nil receiver: expected ErrTransport, got %v", err)
	}
	zero := &Client{}
	if _, err := zero.Infer(context.Background(), "prompt"); !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("zero client: expected ErrTransport, got %v", err)
	}
}

func TestModel_NilReceiver(t *testing.T) {
	var nilClient *Client
	if got := nilClient.Model(); got != "" {
		t.Fatalf("expected empty model name, got %q", got)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "   ", "gemini-2.5-flash"); err == nil {
		t.Fatal("expected an error for a blank api key")
	}
}

func TestCollectText(t *testing.T) {
	part := func(text string) *genai.Part { return &genai.Part{Text: text} }
	candidate := func(parts ...*genai.Part) *genai.Candidate {
		return &genai.Candidate{Content: &genai.Content{Parts: parts}}
	}
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil candidate entries", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil, {Content: nil}}}, ""},
		{"whitespace-only parts", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(part("  \n\t "), nil)}}, ""},
		{"single part", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(part(`{"is_resume": true}`))}}, `{"is_resume": true}`},
		{"parts joined with newline", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate(part("first"), part("  second  "))}}, "first\nsecond"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := collectText(tc.resp); got != tc.want {
				t.Fatalf("collectText = %q, want %q", got, tc.want)
			}
		})
	}
}
