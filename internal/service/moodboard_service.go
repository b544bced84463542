package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/mediastore"
	"github.com/h00x7r/Media-Flow/internal/stylist"
)

// MoodBoardService owns mood boards and their ordered image collections.
type MoodBoardService struct {
	mu sync.Mutex

	boards     moodBoardRepository
	media      mediastore.MediaStore
	styles     *StyleGuideService
	feed       activity.Feed
	coverImage string
	logger     *slog.Logger
	now        func() time.Time
}

func NewMoodBoardService(
	boards moodBoardRepository,
	media mediastore.MediaStore,
	styles *StyleGuideService,
	feed activity.Feed,
	coverImage string,
	logger *slog.Logger,
) *MoodBoardService {
	return &MoodBoardService{
		boards:     boards,
		media:      media,
		styles:     styles,
		feed:       feed,
		coverImage: coverImage,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *MoodBoardService) CreateMoodBoard(ctx context.Context, name, description string) (*domain.MoodBoard, error) {
	now := s.now()
	b, err := domain.NewMoodBoard(name, description, s.coverImage, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.boards.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create mood board: %w", err)
	}
	s.logger.Info("mood board created", "board_id", b.ID)
	recordActivity(ctx, s.feed, s.logger, activity.KindMoodBoard,
		fmt.Sprintf("Mood board %q created", b.Name), now)
	return b, nil
}

func (s *MoodBoardService) ListMoodBoards(ctx context.Context) ([]*domain.MoodBoard, error) {
	return s.boards.List(ctx)
}

func (s *MoodBoardService) GetMoodBoard(ctx context.Context, id string) (*domain.MoodBoard, error) {
	b, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood board: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("mood board %q %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// AddImage appends an image to the board. An upload takes precedence over a
// URL; the upload is stored and the image references its media handle.
func (s *MoodBoardService) AddImage(ctx context.Context, boardID string, src domain.ImageSource) (*domain.MoodBoard, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.GetMoodBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	url := strings.TrimSpace(src.URL)
	storageKey := ""
	if src.IsUpload() {
		storageKey, err = s.media.Save(ctx, "board_"+boardID, src.Upload.MimeType, bytes.NewReader(src.Upload.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		url = mediastore.URL(storageKey)
	}

	now := s.now()
	img := src.NewImage(url, now)
	img.StorageKey = storageKey
	if err := s.boards.AddImage(ctx, boardID, img); err != nil {
		if storageKey != "" {
			if derr := s.media.Delete(ctx, storageKey); derr != nil {
				s.logger.Error("failed to delete image file after add error", "storage_key", storageKey, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to add image: %w", err)
	}

	s.logger.Info("image added", "board_id", boardID, "image_id", img.ID, "uploaded", src.IsUpload())
	recordActivity(ctx, s.feed, s.logger, activity.KindMoodBoard,
		fmt.Sprintf("Image added to mood board %q", b.Name), now)
	return s.GetMoodBoard(ctx, boardID)
}

// RemoveImage drops the image from the board, keeping the order of the rest.
// Content the board stored for an upload is deleted as well; URL images never
// touch the media store, even when they point into it.
func (s *MoodBoardService) RemoveImage(ctx context.Context, boardID, imageID string) (*domain.MoodBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.GetMoodBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	img := b.FindImage(imageID)
	if img == nil {
		return nil, fmt.Errorf("image %q %w", imageID, domain.ErrNotFound)
	}

	if err := s.boards.RemoveImage(ctx, boardID, imageID); err != nil {
		return nil, fmt.Errorf("failed to remove image: %w", err)
	}
	if img.StorageKey != "" {
		if err := s.media.Delete(ctx, img.StorageKey); err != nil {
			s.logger.Error("failed to delete image file", "storage_key", img.StorageKey, "error", err)
		}
	}

	s.logger.Info("image removed", "board_id", boardID, "image_id", imageID)
	return s.GetMoodBoard(ctx, boardID)
}

// SetCoverImage makes one of the board's images its cover. The cover is not
// otherwise derived from the collection.
func (s *MoodBoardService) SetCoverImage(ctx context.Context, boardID, imageID string) (*domain.MoodBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.GetMoodBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	img := b.FindImage(imageID)
	if img == nil {
		return nil, fmt.Errorf("image %q %w", imageID, domain.ErrNotFound)
	}

	if err := s.boards.SetCoverImage(ctx, boardID, img.URL); err != nil {
		return nil, fmt.Errorf("failed to set cover image: %w", err)
	}
	s.logger.Info("cover image set", "board_id", boardID, "image_id", imageID)
	return s.GetMoodBoard(ctx, boardID)
}

// GenerateBoardStyleGuide builds a style guide from the board's uploaded
// images, taking the first MaxStyleGuideImages in board order.
func (s *MoodBoardService) GenerateBoardStyleGuide(ctx context.Context, boardID string) (*stylist.StyleGuide, error) {
	b, err := s.GetMoodBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	images := make([]stylist.Image, 0, stylist.MaxStyleGuideImages)
	for _, img := range b.Images {
		if len(images) == stylist.MaxStyleGuideImages {
			break
		}
		if img.StorageKey == "" {
			continue
		}
		loaded, err := s.loadImage(ctx, img.StorageKey)
		if err != nil {
			return nil, err
		}
		images = append(images, loaded)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: mood board %q has no uploaded images", domain.ErrValidation, boardID)
	}

	return s.styles.GenerateStyleGuide(ctx, images)
}

func (s *MoodBoardService) loadImage(ctx context.Context, key string) (stylist.Image, error) {
	rc, mimeType, err := s.media.Get(ctx, key)
	if err != nil {
		return stylist.Image{}, fmt.Errorf("failed to load image %s: %w", key, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			s.logger.Error("failed to close image", "storage_key", key, "error", err)
		}
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return stylist.Image{}, fmt.Errorf("failed to read image %s: %w", key, err)
	}
	return stylist.Image{MimeType: mimeType, Data: data}, nil
}
