// Package memory is a process-lifetime entity store with the same contract as
// the SQLite stores. Values are copied on the way in and out so callers never
// share state with the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	projects     map[string]*domain.Project
	projectOrder []string
	proofOwner   map[string]string
	boards       map[string]*domain.MoodBoard
	boardOrder   []string
}

func New() *Store {
	return &Store{
		projects:   make(map[string]*domain.Project),
		proofOwner: make(map[string]string),
		boards:     make(map[string]*domain.MoodBoard),
	}
}

// Projects returns the project repository view of the store.
func (s *Store) Projects() *ProjectStore { return &ProjectStore{s: s} }

// Proofs returns the proof repository view of the store.
func (s *Store) Proofs() *ProofStore { return &ProofStore{s: s} }

// MoodBoards returns the mood board repository view of the store.
func (s *Store) MoodBoards() *MoodBoardStore { return &MoodBoardStore{s: s} }

type ProjectStore struct{ s *Store }

func (v *ProjectStore) Create(_ context.Context, p *domain.Project) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projects[p.ID]; exists {
		return fmt.Errorf("failed to create project: duplicate id %q", p.ID)
	}
	cp := copyProject(p)
	s.projects[p.ID] = cp
	s.projectOrder = append(s.projectOrder, p.ID)
	for _, proof := range cp.Proofs {
		s.proofOwner[proof.ID] = p.ID
	}
	return nil
}

func (v *ProjectStore) GetByID(_ context.Context, id string) (*domain.Project, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return copyProject(p), nil
}

// List returns every project, newest first.
func (v *ProjectStore) List(_ context.Context) ([]*domain.Project, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Project, 0, len(s.projectOrder))
	for i := len(s.projectOrder) - 1; i >= 0; i-- {
		out = append(out, copyProject(s.projects[s.projectOrder[i]]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *ProjectStore) ListDueBetween(_ context.Context, from, to time.Time) ([]*domain.Project, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*domain.Project{}
	for _, id := range s.projectOrder {
		p := s.projects[id]
		if p.DueDate == nil || p.Status == domain.ProjectCompleted {
			continue
		}
		if p.DueDate.Before(from) || p.DueDate.After(to) {
			continue
		}
		out = append(out, copyProject(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

func (v *ProjectStore) UpdateStatus(_ context.Context, id string, status domain.ProjectStatus) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("project %w", domain.ErrNotFound)
	}
	p.Status = status
	return nil
}

func (v *ProjectStore) Count(_ context.Context) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return len(v.s.projects), nil
}

func (v *ProjectStore) CountActive(_ context.Context) (int, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.projects {
		if p.Status != domain.ProjectCompleted {
			n++
		}
	}
	return n, nil
}

type ProofStore struct{ s *Store }

func (v *ProofStore) Create(_ context.Context, projectID string, proof *domain.Proof) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("failed to create proof: project %w", domain.ErrNotFound)
	}
	if _, exists := s.proofOwner[proof.ID]; exists {
		return fmt.Errorf("failed to create proof: duplicate id %q", proof.ID)
	}
	p.Proofs = append(p.Proofs, copyProof(proof))
	s.proofOwner[proof.ID] = projectID
	return nil
}

func (v *ProofStore) GetByID(_ context.Context, projectID, proofID string) (*domain.Proof, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	proof := s.proofLocked(proofID)
	if proof == nil || s.proofOwner[proofID] != projectID {
		return nil, nil
	}
	return copyProof(proof), nil
}

func (v *ProofStore) UpdateStatus(_ context.Context, proofID string, status domain.ProofStatus) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	proof := s.proofLocked(proofID)
	if proof == nil {
		return fmt.Errorf("proof %w", domain.ErrNotFound)
	}
	proof.Status = status
	return nil
}

func (v *ProofStore) AppendFeedback(_ context.Context, proofID string, fb *domain.Feedback, status domain.ProofStatus) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	proof := s.proofLocked(proofID)
	if proof == nil {
		return fmt.Errorf("proof %w", domain.ErrNotFound)
	}
	f := *fb
	proof.Feedback = append(proof.Feedback, &f)
	proof.Status = status
	return nil
}

func (v *ProofStore) CountByStatus(_ context.Context, status domain.ProofStatus) (int, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.projects {
		for _, proof := range p.Proofs {
			if proof.Status == status {
				n++
			}
		}
	}
	return n, nil
}

func (s *Store) proofLocked(proofID string) *domain.Proof {
	projectID, ok := s.proofOwner[proofID]
	if !ok {
		return nil
	}
	return s.projects[projectID].FindProof(proofID)
}

type MoodBoardStore struct{ s *Store }

func (v *MoodBoardStore) Create(_ context.Context, b *domain.MoodBoard) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boards[b.ID]; exists {
		return fmt.Errorf("failed to create mood board: duplicate id %q", b.ID)
	}
	s.boards[b.ID] = copyBoard(b)
	s.boardOrder = append(s.boardOrder, b.ID)
	return nil
}

func (v *MoodBoardStore) GetByID(_ context.Context, id string) (*domain.MoodBoard, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[id]
	if !ok {
		return nil, nil
	}
	return copyBoard(b), nil
}

func (v *MoodBoardStore) List(_ context.Context) ([]*domain.MoodBoard, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MoodBoard, 0, len(s.boardOrder))
	for i := len(s.boardOrder) - 1; i >= 0; i-- {
		out = append(out, copyBoard(s.boards[s.boardOrder[i]]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (v *MoodBoardStore) AddImage(_ context.Context, boardID string, img *domain.MoodBoardImage) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[boardID]
	if !ok {
		return fmt.Errorf("failed to add image: mood board %w", domain.ErrNotFound)
	}
	cp := *img
	b.Images = append(b.Images, &cp)
	return nil
}

func (v *MoodBoardStore) RemoveImage(_ context.Context, boardID, imageID string) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[boardID]
	if !ok {
		return fmt.Errorf("mood board %w", domain.ErrNotFound)
	}
	images, err := domain.RemoveImage(b.Images, imageID)
	if err != nil {
		return fmt.Errorf("image %w", err)
	}
	b.Images = images
	return nil
}

func (v *MoodBoardStore) SetCoverImage(_ context.Context, boardID, url string) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boards[boardID]
	if !ok {
		return fmt.Errorf("mood board %w", domain.ErrNotFound)
	}
	b.CoverImage = url
	return nil
}

func (v *MoodBoardStore) Count(_ context.Context) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return len(v.s.boards), nil
}

func copyProject(p *domain.Project) *domain.Project {
	cp := *p
	if p.DueDate != nil {
		due := *p.DueDate
		cp.DueDate = &due
	}
	cp.Proofs = make([]*domain.Proof, 0, len(p.Proofs))
	for _, proof := range p.Proofs {
		cp.Proofs = append(cp.Proofs, copyProof(proof))
	}
	return &cp
}

func copyProof(p *domain.Proof) *domain.Proof {
	cp := *p
	cp.Feedback = make([]*domain.Feedback, 0, len(p.Feedback))
	for _, fb := range p.Feedback {
		f := *fb
		cp.Feedback = append(cp.Feedback, &f)
	}
	return &cp
}

func copyBoard(b *domain.MoodBoard) *domain.MoodBoard {
	cp := *b
	cp.Images = make([]*domain.MoodBoardImage, 0, len(b.Images))
	for _, img := range b.Images {
		i := *img
		cp.Images = append(cp.Images, &i)
	}
	return &cp
}
