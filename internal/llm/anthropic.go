package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// AnthropicClient implements the Client interface using Claude's messages
// API. Unlike OpenAI, the messages API has no JSON response mode: even when
// asked for JSON, Claude may wrap the object in prose ("Here is the
// analysis: {...}"). On the structured path we therefore extract the first
// balanced brace span from the reply before returning it.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Claude-backed client.
func NewAnthropicClient(apiKey string, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{
		client: &client,
		model:  model,
	}
}

func (a *AnthropicClient) ProviderName() string { return "anthropic" }
func (a *AnthropicClient) ModelName() string    { return a.model }

// Complete sends one prompt and returns the concatenated text blocks of
// the reply. Transport errors, empty replies, and (in JSON mode) replies
// with no JSON-shaped span all come back as errors for the invoker to
// record as Failure.
func (a *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}
	if req.Temperature > 0 {
		params.Temperature = param.NewOpt(float64(req.Temperature))
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	// A reply is a sequence of content blocks; text may be split across
	// several. Concatenate them and ignore any non-text blocks.
	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	content := sb.String()
	if content == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}

	if req.WantJSON {
		span, ok := ExtractJSONObject(content)
		if !ok {
			return "", fmt.Errorf("anthropic response contains no JSON object")
		}
		content = span
	}

	return content, nil
}
