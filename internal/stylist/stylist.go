package stylist

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

// ImagePromptInstruction asks the model to turn a free-form description into
// an image-generation prompt. The description is appended after it.
const ImagePromptInstruction = `You are an assistant specialised in writing detailed, effective prompts for
image generation tools such as DALL-E. Based on the user's description, write one
prompt that will produce a high-quality image closely matching their vision.
Be specific and creative. Respond with the prompt text only, no preamble.

User description: `

// StyleGuideInstruction is the shared prompt sent with the images of a
// style-guide request.
const StyleGuideInstruction = `Analyse the images provided and suggest a style guide that is consistent
with the themes and styles they share. Respond with a single JSON object and
nothing else, in exactly this shape:
{"colorPalette": ["#RRGGBB", ...], "typography": {"fontFamily": "...", "fontSize": "..."}, "description": "..."}
colorPalette is a list of hex colour codes, typography is a recommended font
family and font size, description is a short paragraph describing the style.`

// MaxStyleGuideImages bounds the images accepted by GenerateStyleGuide.
const MaxStyleGuideImages = 5

var (
	// ErrTransport reports that the model could not be reached or answered
	// with a non-success status.
	ErrTransport = fmt.Errorf("%w: model request failed", domain.ErrExternalService)
	// ErrInvalidResponse reports a model reply that does not match the
	// expected shape.
	ErrInvalidResponse = fmt.Errorf("%w: model response failed validation", domain.ErrExternalService)
)

// Generator is the boundary to the external generative model.
type Generator interface {
	GenerateImagePrompt(ctx context.Context, description string) (string, error)
	GenerateStyleGuide(ctx context.Context, images []Image) (*StyleGuide, error)
}

type Image struct {
	MimeType string
	Data     []byte
}

type Typography struct {
	FontFamily string `json:"fontFamily"`
	FontSize   string `json:"fontSize"`
}

type StyleGuide struct {
	ColorPalette []string   `json:"colorPalette"`
	Typography   Typography `json:"typography"`
	Description  string     `json:"description"`
}

// ValidateDescription rejects a blank image description.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	return nil
}

// imageTypes are the image formats both model backends accept.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// SupportedImageType reports whether mimeType is an image format the models
// accept.
func SupportedImageType(mimeType string) bool {
	return imageTypes[mimeType]
}

// DetectImageType sniffs data and returns its MIME type when it is a
// supported image. http.DetectContentType has no WebP signature, so WebP is
// matched on its RIFF header.
func DetectImageType(data []byte) (string, bool) {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp", true
	}
	mimeType := http.DetectContentType(data)
	if imageTypes[mimeType] {
		return mimeType, true
	}
	return "", false
}

// ValidateImages enforces the 1..MaxStyleGuideImages cardinality and rejects
// empty payloads and non-image types.
func ValidateImages(images []Image) error {
	if len(images) == 0 || len(images) > MaxStyleGuideImages {
		return fmt.Errorf("%w: between 1 and %d images are required, got %d",
			domain.ErrValidation, MaxStyleGuideImages, len(images))
	}
	for i, img := range images {
		if len(img.Data) == 0 {
			return fmt.Errorf("%w: image %d is empty", domain.ErrValidation, i+1)
		}
		if !SupportedImageType(img.MimeType) {
			return fmt.Errorf("%w: image %d has unsupported type %q", domain.ErrValidation, i+1, img.MimeType)
		}
	}
	return nil
}

// ParseDataURI decodes a data URI of the form data:<mime>;base64,<payload>.
// Both the declared type and the decoded content must be a supported image;
// the returned image carries the sniffed type.
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: image is not a data URI", domain.ErrValidation)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: data URI has no payload", domain.ErrValidation)
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return Image{}, fmt.Errorf("%w: data URI must be base64 encoded with a MIME type", domain.ErrValidation)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: invalid base64 payload: %v", domain.ErrValidation, err)
	}
	if !SupportedImageType(mimeType) {
		return Image{}, fmt.Errorf("%w: data URI type %q is not a supported image", domain.ErrValidation, mimeType)
	}
	sniffed, ok := DetectImageType(data)
	if !ok {
		return Image{}, fmt.Errorf("%w: data URI content is not a supported image", domain.ErrValidation)
	}
	return Image{MimeType: sniffed, Data: data}, nil
}
