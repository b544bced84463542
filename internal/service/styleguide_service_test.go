package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/stylist"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
)

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func newStyleGuideService(gen stylist.Generator, feed activity.Feed) *StyleGuideService {
	svc := NewStyleGuideService(gen, feed, slog.Default())
	svc.now = fixedClock(testNow)
	return svc
}

func TestGenerateStyleGuideRejectsSixImagesWithoutCalling(t *testing.T) {
	gen := &stubGenerator{guide: testGuide}
	svc := newStyleGuideService(gen, nil)

	uris := make([]string, 6)
	for i := range uris {
		uris[i] = dataURI("image/png", []byte{1})
	}
	_, err := svc.GenerateStyleGuideFromDataURIs(context.Background(), uris)
	assert.ErrorIs(t, err, domain.ErrValidation)

	images := make([]stylist.Image, 6)
	for i := range images {
		images[i] = stylist.Image{MimeType: "image/png", Data: []byte{1}}
	}
	_, err = svc.GenerateStyleGuide(context.Background(), images)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GenerateStyleGuideFromDataURIs(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, gen.calls.Load())
}

func TestGenerateStyleGuideFromDataURIs(t *testing.T) {
	gen := &stubGenerator{guide: testGuide}
	feed := activity.NewMemoryFeed(10)
	svc := newStyleGuideService(gen, feed)

	guide, err := svc.GenerateStyleGuideFromDataURIs(context.Background(), []string{
		dataURI("image/png", pngHeader),
		dataURI("image/jpeg", jpegHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, testGuide, guide)
	require.Len(t, gen.lastImages, 2)
	assert.Equal(t, "image/jpeg", gen.lastImages[1].MimeType)

	recent, err := feed.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, activity.KindStyleGuide, recent[0].Kind)
}

func TestGenerateStyleGuideMalformedURI(t *testing.T) {
	gen := &stubGenerator{guide: testGuide}
	svc := newStyleGuideService(gen, nil)

	_, err := svc.GenerateStyleGuideFromDataURIs(context.Background(), []string{"https://example.com/a.png"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, gen.calls.Load())
}

func TestGenerateStyleGuideRejectsNonImagePayloads(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{name: "plain text", uri: dataURI("text/plain", []byte("not an image"))},
		{name: "pdf", uri: dataURI("application/pdf", []byte("%PDF-1.4"))},
		{name: "text labelled as png", uri: dataURI("image/png", []byte("not an image"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{guide: testGuide}
			svc := newStyleGuideService(gen, nil)

			_, err := svc.GenerateStyleGuideFromDataURIs(context.Background(), []string{tt.uri})
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, "ValidationFailed", domain.Kind(err))
			assert.Zero(t, gen.calls.Load())
		})
	}

	gen := &stubGenerator{guide: testGuide}
	svc := newStyleGuideService(gen, nil)
	_, err := svc.GenerateStyleGuide(context.Background(), []stylist.Image{{MimeType: "application/pdf", Data: []byte("%PDF-1.4")}})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, gen.calls.Load())
}

func TestGeneratorErrorsStayDistinguishable(t *testing.T) {
	img := []stylist.Image{{MimeType: "image/png", Data: []byte{1}}}

	tests := []struct {
		name        string
		genErr      error
		wantInvalid bool
	}{
		{name: "transport", genErr: stylist.ErrTransport},
		{name: "invalid response", genErr: stylist.ErrInvalidResponse, wantInvalid: true},
		{name: "unclassified", genErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := activity.NewMemoryFeed(10)
			svc := newStyleGuideService(&stubGenerator{err: tt.genErr}, feed)

			_, err := svc.GenerateStyleGuide(context.Background(), img)
			assert.ErrorIs(t, err, domain.ErrExternalService)
			assert.Equal(t, "ExternalServiceFailure", domain.Kind(err))
			if tt.wantInvalid {
				assert.ErrorIs(t, err, stylist.ErrInvalidResponse)
				assert.NotErrorIs(t, err, stylist.ErrTransport)
			} else {
				assert.ErrorIs(t, err, stylist.ErrTransport)
				assert.NotErrorIs(t, err, stylist.ErrInvalidResponse)
			}

			n, err := feed.Count(context.Background(), activity.KindStyleGuide)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestGenerateImagePrompt(t *testing.T) {
	gen := &stubGenerator{prompt: "Golden hour portrait, shallow depth of field"}
	svc := newStyleGuideService(gen, nil)

	prompt, err := svc.GenerateImagePrompt(context.Background(), "portrait at sunset")
	require.NoError(t, err)
	assert.Equal(t, "Golden hour portrait, shallow depth of field", prompt)

	_, err = svc.GenerateImagePrompt(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestGenerationIgnoresCallerCancellation(t *testing.T) {
	gen := &stubGenerator{prompt: "ok"}
	svc := newStyleGuideService(gen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateImagePrompt(ctx, "anything")
	require.NoError(t, err)
	assert.NoError(t, gen.ctxErr)
}
