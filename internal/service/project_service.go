package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/mediastore"
)

// ProjectService owns projects and the proofing workflow of their proofs.
// Mutations are serialised so each one is a single step from the caller's
// point of view.
type ProjectService struct {
	mu sync.Mutex

	projects   projectRepository
	proofs     proofRepository
	media      mediastore.MediaStore
	feed       activity.Feed
	coverImage string
	logger     *slog.Logger
	now        func() time.Time
}

func NewProjectService(
	projects projectRepository,
	proofs proofRepository,
	media mediastore.MediaStore,
	feed activity.Feed,
	coverImage string,
	logger *slog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		proofs:     proofs,
		media:      media,
		feed:       feed,
		coverImage: coverImage,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, in domain.NewProjectInput) (*domain.Project, error) {
	now := s.now()
	p, err := domain.NewProject(in, s.coverImage, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.logger.Info("project created", "project_id", p.ID, "type", p.Type)
	recordActivity(ctx, s.feed, s.logger, activity.KindProject,
		fmt.Sprintf("New project %q created for %s", p.Name, p.ClientName), now)
	return p, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("project %q %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *ProjectService) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", domain.ErrValidation, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.projects.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}
	s.logger.Info("project status updated", "project_id", id, "status", status)
	return s.GetProject(ctx, id)
}

// SubmitProof stores the file content and appends a proof awaiting review to
// the project. File type and size are checked at the upload boundary.
func (s *ProjectService) SubmitProof(ctx context.Context, projectID string, file domain.FileUpload) (*domain.Project, error) {
	s.logger.Info("submit proof started", "project_id", projectID, "file_name", file.FileName, "bytes", len(file.Data))

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	storageKey, err := s.media.Save(ctx, "proof_"+projectID, file.MimeType, bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to save proof file: %w", err)
	}
	s.logger.Debug("proof file saved", "project_id", projectID, "storage_key", storageKey)

	now := s.now()
	proof := domain.NewProof(file.FileName, mediastore.URL(storageKey), now)
	if err := s.proofs.Create(ctx, projectID, proof); err != nil {
		if derr := s.media.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to delete proof file after create error", "storage_key", storageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to create proof record: %w", err)
	}

	s.logger.Info("submit proof complete", "project_id", projectID, "proof_id", proof.ID)
	recordActivity(ctx, s.feed, s.logger, activity.KindProof,
		fmt.Sprintf("Proof %q uploaded to %q", proof.FileName, p.Name), now)
	return s.GetProject(ctx, projectID)
}

func (s *ProjectService) ApproveProof(ctx context.Context, projectID, proofID string) (*domain.Project, error) {
	return s.transitionProof(ctx, projectID, proofID, (*domain.Proof).Approve, "approved")
}

func (s *ProjectService) RequestRevisions(ctx context.Context, projectID, proofID string) (*domain.Project, error) {
	return s.transitionProof(ctx, projectID, proofID, (*domain.Proof).RequestRevisions, "sent back for revisions")
}

func (s *ProjectService) transitionProof(ctx context.Context, projectID, proofID string, apply func(*domain.Proof) error, verb string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proof, err := s.getProof(ctx, projectID, proofID)
	if err != nil {
		return nil, err
	}
	from := proof.Status
	if err := apply(proof); err != nil {
		return nil, err
	}
	if err := s.proofs.UpdateStatus(ctx, proof.ID, proof.Status); err != nil {
		return nil, fmt.Errorf("failed to update proof status: %w", err)
	}

	s.logger.Info("proof status changed", "project_id", projectID, "proof_id", proofID, "from", from, "to", proof.Status)
	recordActivity(ctx, s.feed, s.logger, activity.KindProof,
		fmt.Sprintf("Proof %q %s", proof.FileName, verb), s.now())
	return s.GetProject(ctx, projectID)
}

// AddFeedback appends a comment to the proof's log. Leaving feedback always
// moves the proof to Revisions Requested.
func (s *ProjectService) AddFeedback(ctx context.Context, projectID, proofID, comment, commenterName string) (*domain.Project, error) {
	now := s.now()
	fb, err := domain.NewFeedback(comment, commenterName, now)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proof, err := s.getProof(ctx, projectID, proofID)
	if err != nil {
		return nil, err
	}
	if err := proof.AddFeedback(fb); err != nil {
		return nil, err
	}
	if err := s.proofs.AppendFeedback(ctx, proof.ID, fb, proof.Status); err != nil {
		return nil, fmt.Errorf("failed to add feedback: %w", err)
	}

	s.logger.Info("feedback added", "project_id", projectID, "proof_id", proofID, "feedback_id", fb.ID)
	recordActivity(ctx, s.feed, s.logger, activity.KindProof,
		fmt.Sprintf("%s left feedback on %q", fb.CommenterName, proof.FileName), now)
	return s.GetProject(ctx, projectID)
}

func (s *ProjectService) getProof(ctx context.Context, projectID, proofID string) (*domain.Proof, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	proof, err := s.proofs.GetByID(ctx, projectID, proofID)
	if err != nil {
		return nil, fmt.Errorf("failed to get proof: %w", err)
	}
	if proof == nil {
		return nil, fmt.Errorf("proof %q %w", proofID, domain.ErrNotFound)
	}
	return proof, nil
}
