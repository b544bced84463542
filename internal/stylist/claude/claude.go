package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/h00x7r/Media-Flow/internal/stylist"
)

// maxTokens comfortably covers a prompt paragraph or a style-guide object.
const maxTokens = 1024

type ClaudeGenerator struct {
	client *anthropic.Client
	model  string
}

type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
}

// WithBaseURL points the client at a different Messages API root.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithTimeout bounds each round trip to the API.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func NewClaudeGenerator(apiKey, model string, opts ...Option) *ClaudeGenerator {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: o.timeout}),
	}
	if o.baseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(o.baseURL))
	}

	return &ClaudeGenerator{
		client: anthropic.NewClient(apiKey, clientOpts...),
		model:  model,
	}
}

func (g *ClaudeGenerator) GenerateImagePrompt(ctx context.Context, description string) (string, error) {
	if err := stylist.ValidateDescription(description); err != nil {
		return "", err
	}

	text, err := g.complete(ctx, []anthropic.MessageContent{
		anthropic.NewTextMessageContent(stylist.ImagePromptInstruction + strings.TrimSpace(description)),
	})
	if err != nil {
		return "", err
	}
	return stylist.ParsePrompt(text)
}

func (g *ClaudeGenerator) GenerateStyleGuide(ctx context.Context, images []stylist.Image) (*stylist.StyleGuide, error) {
	if err := stylist.ValidateImages(images); err != nil {
		return nil, err
	}

	content := make([]anthropic.MessageContent, 0, len(images)+1)
	for _, img := range images {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(img.MimeType),
				base64.StdEncoding.EncodeToString(img.Data),
			),
		))
	}
	content = append(content, anthropic.NewTextMessageContent(stylist.StyleGuideInstruction))

	text, err := g.complete(ctx, content)
	if err != nil {
		return nil, err
	}
	return stylist.ParseStyleGuide(text)
}

// complete sends one user turn and returns the first text block of the reply.
func (g *ClaudeGenerator) complete(ctx context.Context, content []anthropic.MessageContent) (string, error) {
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{{
			Role:    anthropic.RoleUser,
			Content: content,
		}},
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: claude returned %s: %s", stylist.ErrTransport, apiErr.Type, apiErr.Message)
		}
		return "", fmt.Errorf("%w: failed to call claude: %v", stylist.ErrTransport, err)
	}

	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			return blk.GetText(), nil
		}
	}
	return "", fmt.Errorf("%w: claude reply has no text content", stylist.ErrInvalidResponse)
}

// normaliseMIME maps browser MIME types to the values the Anthropic API accepts.
// The API accepts only jpeg, png, gif, and webp.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
