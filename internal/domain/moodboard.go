package domain

import (
	"strings"
	"time"
)

// DefaultImageAltText labels URL images added without alt text.
const DefaultImageAltText = "Mood board image"

// FileUpload is binary content supplied by the caller, such as a proof file
// or a mood board image.
type FileUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// ImageSource describes an image to add to a mood board. Upload and URL are
// mutually exclusive; when Upload is set URL is ignored.
type ImageSource struct {
	Upload  *FileUpload
	URL     string
	AltText string
	Notes   string
}

// Validate rejects a source that has neither an upload nor a non-blank URL.
func (s ImageSource) Validate() error {
	if s.Upload == nil && strings.TrimSpace(s.URL) == "" {
		return validationf("an image file or URL is required")
	}
	return nil
}

// IsUpload reports whether the upload takes precedence over the URL.
func (s ImageSource) IsUpload() bool {
	return s.Upload != nil
}

// NewImage builds the image record for this source. url is the location the
// image resolves to: the stored upload's handle, or the trimmed source URL.
func (s ImageSource) NewImage(url string, addedAt time.Time) *MoodBoardImage {
	alt := strings.TrimSpace(s.AltText)
	if alt == "" {
		if s.IsUpload() {
			alt = s.Upload.FileName
		} else {
			alt = DefaultImageAltText
		}
	}
	return &MoodBoardImage{
		ID:      NewImageID(),
		URL:     url,
		AltText: alt,
		AddedAt: addedAt,
		Notes:   strings.TrimSpace(s.Notes),
	}
}

// RemoveImage returns images without the entry whose id is imageID, keeping
// the order of the rest. The input slice is not modified.
func RemoveImage(images []*MoodBoardImage, imageID string) ([]*MoodBoardImage, error) {
	idx := -1
	for i, img := range images {
		if img.ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return images, ErrNotFound
	}
	out := make([]*MoodBoardImage, 0, len(images)-1)
	out = append(out, images[:idx]...)
	return append(out, images[idx+1:]...), nil
}

// FindImage returns the board image with the given id, or nil.
func (b *MoodBoard) FindImage(imageID string) *MoodBoardImage {
	for _, img := range b.Images {
		if img.ID == imageID {
			return img
		}
	}
	return nil
}
