package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/h00x7r/Media-Flow/internal/stylist"
)

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Format string   `json:"format,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type OllamaGenerator struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaGenerator(host, model string, timeout time.Duration) *OllamaGenerator {
	return &OllamaGenerator{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (g *OllamaGenerator) GenerateImagePrompt(ctx context.Context, description string) (string, error) {
	if err := stylist.ValidateDescription(description); err != nil {
		return "", err
	}

	raw, err := g.generate(ctx, generateRequest{
		Model:  g.model,
		Prompt: stylist.ImagePromptInstruction + strings.TrimSpace(description),
	})
	if err != nil {
		return "", err
	}
	return stylist.ParsePrompt(raw)
}

func (g *OllamaGenerator) GenerateStyleGuide(ctx context.Context, images []stylist.Image) (*stylist.StyleGuide, error) {
	if err := stylist.ValidateImages(images); err != nil {
		return nil, err
	}

	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img.Data))
	}

	raw, err := g.generate(ctx, generateRequest{
		Model:  g.model,
		Prompt: stylist.StyleGuideInstruction,
		Images: encoded,
		Format: "json",
	})
	if err != nil {
		return nil, err
	}
	return stylist.ParseStyleGuide(raw)
}

func (g *OllamaGenerator) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to call ollama: %v", stylist.ErrTransport, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: ollama returned status %d: %s", stylist.ErrTransport, resp.StatusCode, errBody)
	}

	var respBody generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", fmt.Errorf("%w: failed to decode ollama response: %v", stylist.ErrInvalidResponse, err)
	}
	return respBody.Response, nil
}
