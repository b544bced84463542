package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/h00x7r/Media-Flow/internal/db"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/store"
	"github.com/h00x7r/Media-Flow/internal/store/memory"
)

type projectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Project, error)
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
}

type proofStore interface {
	Create(ctx context.Context, projectID string, proof *domain.Proof) error
	GetByID(ctx context.Context, projectID, proofID string) (*domain.Proof, error)
	UpdateStatus(ctx context.Context, proofID string, status domain.ProofStatus) error
	AppendFeedback(ctx context.Context, proofID string, fb *domain.Feedback, status domain.ProofStatus) error
	CountByStatus(ctx context.Context, status domain.ProofStatus) (int, error)
}

type moodBoardStore interface {
	Create(ctx context.Context, b *domain.MoodBoard) error
	GetByID(ctx context.Context, id string) (*domain.MoodBoard, error)
	List(ctx context.Context) ([]*domain.MoodBoard, error)
	AddImage(ctx context.Context, boardID string, img *domain.MoodBoardImage) error
	RemoveImage(ctx context.Context, boardID, imageID string) error
	SetCoverImage(ctx context.Context, boardID, url string) error
	Count(ctx context.Context) (int, error)
}

// stores is the entity store backend selected by STORE_BACKEND.
type stores struct {
	projects projectStore
	proofs   proofStore
	boards   moodBoardStore
	close    func()
}

func openStores(backend, dbPath string, logger *slog.Logger) (*stores, error) {
	switch backend {
	case "memory":
		logger.Info("using in-memory store; data is lost on exit")
		mem := memory.New()
		return &stores{
			projects: mem.Projects(),
			proofs:   mem.Proofs(),
			boards:   mem.MoodBoards(),
			close:    func() {},
		}, nil
	case "sqlite":
		database, err := db.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("using sqlite store", "path", dbPath)
		return &stores{
			projects: store.NewProjectStore(database),
			proofs:   store.NewProofStore(database),
			boards:   store.NewMoodBoardStore(database),
			close:    func() { closeDB(database, logger) },
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
