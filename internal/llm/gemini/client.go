// Package gemini implements llm.Client over the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-insight/internal/llm"
)

const defaultModel = "gemini-2.5-flash"

// Client calls the Gemini API through google.golang.org/genai.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini-backed client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Infer sends the prompt and returns the concatenated candidate text.
func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("%w: gemini client is not initialized", llm.ErrTransport)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyErr(err)
	}

	output := collectText(resp)
	if output == "" {
		return "", fmt.Errorf("%w: gemini api returned empty response", llm.ErrTransport)
	}
	return output, nil
}

// collectText concatenates the text parts of every candidate, newline-joined.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func classifyErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "overloaded"):
		return fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	case strings.Contains(msg, "deadline"), strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", llm.ErrTransport, err)
	}
}

var _ llm.Client = (*Client)(nil)
