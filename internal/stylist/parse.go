package stylist

import (
	"encoding/json"
	"fmt"
	"strings"
)

var promptLabels = []string{"Generated Prompt:", "Prompt:"}

// ParsePrompt extracts the prompt text from a model reply.
func ParsePrompt(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	for _, label := range promptLabels {
		if rest, ok := strings.CutPrefix(text, label); ok {
			text = strings.TrimSpace(rest)
			break
		}
	}
	text = strings.Trim(text, "\"")
	if text == "" {
		return "", fmt.Errorf("%w: empty prompt", ErrInvalidResponse)
	}
	return text, nil
}

// ParseStyleGuide decodes a style guide from a model reply. Markdown code
// fences and surrounding prose are tolerated; a reply without a palette,
// typography or description is rejected.
func ParseStyleGuide(raw string) (*StyleGuide, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	}

	var guide StyleGuide
	if err := json.Unmarshal([]byte(raw[start:end+1]), &guide); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	switch {
	case len(guide.ColorPalette) == 0:
		return nil, fmt.Errorf("%w: colorPalette is missing", ErrInvalidResponse)
	case strings.TrimSpace(guide.Typography.FontFamily) == "":
		return nil, fmt.Errorf("%w: typography.fontFamily is missing", ErrInvalidResponse)
	case strings.TrimSpace(guide.Typography.FontSize) == "":
		return nil, fmt.Errorf("%w: typography.fontSize is missing", ErrInvalidResponse)
	case strings.TrimSpace(guide.Description) == "":
		return nil, fmt.Errorf("%w: description is missing", ErrInvalidResponse)
	}
	return &guide, nil
}
