package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
)

// projectRepository is the subset of store.ProjectStore that the services require.
type projectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	CountActive(ctx context.Context) (int, error)
}

// proofRepository is the subset of store.ProofStore that the services require.
type proofRepository interface {
	Create(ctx context.Context, projectID string, proof *domain.Proof) error
	GetByID(ctx context.Context, projectID, proofID string) (*domain.Proof, error)
	UpdateStatus(ctx context.Context, proofID string, status domain.ProofStatus) error
	AppendFeedback(ctx context.Context, proofID string, fb *domain.Feedback, status domain.ProofStatus) error
	CountByStatus(ctx context.Context, status domain.ProofStatus) (int, error)
}

// moodBoardRepository is the subset of store.MoodBoardStore that the services require.
type moodBoardRepository interface {
	Create(ctx context.Context, b *domain.MoodBoard) error
	GetByID(ctx context.Context, id string) (*domain.MoodBoard, error)
	List(ctx context.Context) ([]*domain.MoodBoard, error)
	AddImage(ctx context.Context, boardID string, img *domain.MoodBoardImage) error
	RemoveImage(ctx context.Context, boardID, imageID string) error
	SetCoverImage(ctx context.Context, boardID, url string) error
	Count(ctx context.Context) (int, error)
}

// recordActivity appends an entry to feed. Feed failures are logged and never
// fail the operation that triggered them.
func recordActivity(ctx context.Context, feed activity.Feed, logger *slog.Logger, kind activity.Kind, description string, at time.Time) {
	if feed == nil {
		return
	}
	if err := feed.Record(ctx, activity.Entry{Kind: kind, Description: description, At: at}); err != nil {
		logger.Warn("failed to record activity", "kind", kind, "error", err)
	}
}
