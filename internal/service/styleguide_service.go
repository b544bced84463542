package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/stylist"
)

// StyleGuideService validates AI requests locally and forwards them to the
// generator. Calls run detached from the caller's cancellation: once issued a
// request is awaited to success or failure.
type StyleGuideService struct {
	generator stylist.Generator
	feed      activity.Feed
	logger    *slog.Logger
	now       func() time.Time
}

func NewStyleGuideService(generator stylist.Generator, feed activity.Feed, logger *slog.Logger) *StyleGuideService {
	return &StyleGuideService{
		generator: generator,
		feed:      feed,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *StyleGuideService) GenerateImagePrompt(ctx context.Context, description string) (string, error) {
	if err := stylist.ValidateDescription(description); err != nil {
		return "", err
	}

	s.logger.Info("image prompt generation started", "description_len", len(description))
	prompt, err := s.generator.GenerateImagePrompt(context.WithoutCancel(ctx), description)
	if err != nil {
		s.logger.Error("image prompt generation failed", "error", err)
		return "", classifyGeneratorError(err)
	}
	s.logger.Info("image prompt generation complete", "prompt_len", len(prompt))
	return prompt, nil
}

func (s *StyleGuideService) GenerateStyleGuide(ctx context.Context, images []stylist.Image) (*stylist.StyleGuide, error) {
	if err := stylist.ValidateImages(images); err != nil {
		return nil, err
	}

	s.logger.Info("style guide generation started", "images", len(images))
	guide, err := s.generator.GenerateStyleGuide(context.WithoutCancel(ctx), images)
	if err != nil {
		s.logger.Error("style guide generation failed", "images", len(images), "error", err)
		return nil, classifyGeneratorError(err)
	}
	s.logger.Info("style guide generation complete", "colors", len(guide.ColorPalette))
	recordActivity(ctx, s.feed, s.logger, activity.KindStyleGuide,
		fmt.Sprintf("Style guide generated from %d images", len(images)), s.now())
	return guide, nil
}

// GenerateStyleGuideFromDataURIs decodes data:<mime>;base64,<payload> images
// and generates a style guide from them. The image count is checked before
// any payload is decoded.
func (s *StyleGuideService) GenerateStyleGuideFromDataURIs(ctx context.Context, uris []string) (*stylist.StyleGuide, error) {
	if len(uris) == 0 || len(uris) > stylist.MaxStyleGuideImages {
		return nil, fmt.Errorf("%w: between 1 and %d images are required, got %d",
			domain.ErrValidation, stylist.MaxStyleGuideImages, len(uris))
	}

	images := make([]stylist.Image, 0, len(uris))
	for i, uri := range uris {
		img, err := stylist.ParseDataURI(uri)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return s.GenerateStyleGuide(ctx, images)
}

// classifyGeneratorError keeps generator errors inside the external-service
// taxonomy so callers can rely on errors.Is.
func classifyGeneratorError(err error) error {
	if errors.Is(err, domain.ErrExternalService) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", stylist.ErrTransport, err)
}
