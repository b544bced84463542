package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/mediastore"
	"github.com/h00x7r/Media-Flow/internal/stylist"
)

const (
	maxUploadSize = 10 << 20 // 10 MB
	// uploadFormField is the multipart field carrying proof and image files.
	uploadFormField = "file"
)

// allowedImageMIME accepts the image formats the style-guide models take, so
// any uploaded board image can be sent to them.
func allowedImageMIME(data []byte) (string, bool) {
	return stylist.DetectImageType(data)
}

// allowedProofMIME accepts the image formats plus PDF.
func allowedProofMIME(data []byte) (string, bool) {
	if mime, ok := allowedImageMIME(data); ok {
		return mime, true
	}
	if http.DetectContentType(data) == "application/pdf" {
		return "application/pdf", true
	}
	return "", false
}

// readUpload parses a multipart form and returns the file in uploadFormField,
// sniffed with allowed. It returns (nil, nil) when the field is absent or
// empty so callers can fall back to other form values.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, allowed func([]byte) (string, bool)) (*domain.FileUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: file exceeds %d MB", domain.ErrValidation, maxUploadSize>>20)
		}
		return nil, fmt.Errorf("%w: failed to parse form: %v", domain.ErrValidation, err)
	}

	file, header, err := r.FormFile(uploadFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read file: %v", domain.ErrValidation, err)
	}
	defer closeWithLog(file, "upload file", s.logger)

	if header.Size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d MB", domain.ErrValidation, maxUploadSize>>20)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	mimeType, ok := allowed(data)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file format", domain.ErrValidation)
	}
	return &domain.FileUpload{FileName: header.Filename, MimeType: mimeType, Data: data}, nil
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	reader, mimeType, err := s.media.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, mediastore.ErrNotFound) {
			s.logger.Warn("get media failed", "storage_key", key, "error", err)
		}
		s.writeError(w, r, fmt.Errorf("media %q %w", key, domain.ErrNotFound))
		return
	}
	defer closeWithLog(reader, "media reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write media failed", "storage_key", key, "error", err)
	}
}
