// Package seed loads demo projects and mood boards from a YAML fixture into an
// empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

type Fixture struct {
	Projects   []Project   `yaml:"projects"`
	MoodBoards []MoodBoard `yaml:"moodBoards"`
}

type Project struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	ClientName  string               `yaml:"clientName"`
	Type        domain.ProjectType   `yaml:"type"`
	Status      domain.ProjectStatus `yaml:"status"`
	DueDate     string               `yaml:"dueDate"`
	CreatedAt   time.Time            `yaml:"createdAt"`
	CoverImage  string               `yaml:"coverImage"`
	Proofs      []Proof              `yaml:"proofs"`
}

type Proof struct {
	ID         string             `yaml:"id"`
	FileName   string             `yaml:"fileName"`
	FileURL    string             `yaml:"fileUrl"`
	UploadedAt time.Time          `yaml:"uploadedAt"`
	Status     domain.ProofStatus `yaml:"status"`
	Feedback   []Feedback         `yaml:"feedback"`
}

type Feedback struct {
	ID            string    `yaml:"id"`
	Comment       string    `yaml:"comment"`
	CommenterName string    `yaml:"commenterName"`
	CreatedAt     time.Time `yaml:"createdAt"`
}

type MoodBoard struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	CreatedAt   time.Time `yaml:"createdAt"`
	CoverImage  string    `yaml:"coverImage"`
	Images      []Image   `yaml:"images"`
}

type Image struct {
	ID      string    `yaml:"id"`
	URL     string    `yaml:"url"`
	AltText string    `yaml:"altText"`
	AddedAt time.Time `yaml:"addedAt"`
	Notes   string    `yaml:"notes"`
}

type projectRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *domain.Project) error
}

type moodBoardRepository interface {
	Create(ctx context.Context, b *domain.MoodBoard) error
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

type Loader struct {
	projects   projectRepository
	boards     moodBoardRepository
	coverImage string
	logger     *slog.Logger
	now        func() time.Time
}

func NewLoader(projects projectRepository, boards moodBoardRepository, coverImage string, logger *slog.Logger) *Loader {
	return &Loader{
		projects:   projects,
		boards:     boards,
		coverImage: coverImage,
		logger:     logger,
		now:        time.Now,
	}
}

// Apply writes the fixture when the store holds no projects. Ids and
// timestamps present in the fixture are kept; missing ones are filled in.
// It reports whether anything was written.
func (l *Loader) Apply(ctx context.Context, f *Fixture) (bool, error) {
	n, err := l.projects.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count projects: %w", err)
	}
	if n > 0 {
		l.logger.Info("store not empty, skipping seed", "projects", n)
		return false, nil
	}

	for i := range f.Projects {
		p, err := l.project(&f.Projects[i])
		if err != nil {
			return false, fmt.Errorf("seed project %d: %w", i+1, err)
		}
		if err := l.projects.Create(ctx, p); err != nil {
			return false, fmt.Errorf("failed to seed project %s: %w", p.ID, err)
		}
	}
	for i := range f.MoodBoards {
		b, err := l.moodBoard(&f.MoodBoards[i])
		if err != nil {
			return false, fmt.Errorf("seed mood board %d: %w", i+1, err)
		}
		if err := l.boards.Create(ctx, b); err != nil {
			return false, fmt.Errorf("failed to seed mood board %s: %w", b.ID, err)
		}
	}

	l.logger.Info("seed applied", "projects", len(f.Projects), "mood_boards", len(f.MoodBoards))
	return true, nil
}

func (l *Loader) project(sp *Project) (*domain.Project, error) {
	createdAt := l.timeOr(sp.CreatedAt)
	p, err := domain.NewProject(domain.NewProjectInput{
		Name:        sp.Name,
		Description: sp.Description,
		ClientName:  sp.ClientName,
		Type:        sp.Type,
		Status:      sp.Status,
		DueDate:     sp.DueDate,
	}, l.coverImage, createdAt)
	if err != nil {
		return nil, err
	}
	if sp.ID != "" {
		p.ID = sp.ID
	}
	if sp.CoverImage != "" {
		p.CoverImage = sp.CoverImage
	}

	for i := range sp.Proofs {
		spf := &sp.Proofs[i]
		proof := domain.NewProof(spf.FileName, spf.FileURL, l.timeOr(spf.UploadedAt))
		if spf.ID != "" {
			proof.ID = spf.ID
		}
		if spf.Status != "" {
			if !spf.Status.Valid() {
				return nil, fmt.Errorf("%w: invalid proof status %q", domain.ErrValidation, spf.Status)
			}
			proof.Status = spf.Status
		}
		for j := range spf.Feedback {
			sfb := &spf.Feedback[j]
			fb, err := domain.NewFeedback(sfb.Comment, sfb.CommenterName, l.timeOr(sfb.CreatedAt))
			if err != nil {
				return nil, err
			}
			if sfb.ID != "" {
				fb.ID = sfb.ID
			}
			proof.Feedback = append(proof.Feedback, fb)
		}
		p.Proofs = append(p.Proofs, proof)
	}
	return p, nil
}

func (l *Loader) moodBoard(sb *MoodBoard) (*domain.MoodBoard, error) {
	b, err := domain.NewMoodBoard(sb.Name, sb.Description, l.coverImage, l.timeOr(sb.CreatedAt))
	if err != nil {
		return nil, err
	}
	if sb.ID != "" {
		b.ID = sb.ID
	}
	if sb.CoverImage != "" {
		b.CoverImage = sb.CoverImage
	}

	for i := range sb.Images {
		si := &sb.Images[i]
		src := domain.ImageSource{URL: si.URL, AltText: si.AltText, Notes: si.Notes}
		if err := src.Validate(); err != nil {
			return nil, err
		}
		img := src.NewImage(strings.TrimSpace(si.URL), l.timeOr(si.AddedAt))
		if si.ID != "" {
			img.ID = si.ID
		}
		b.Images = append(b.Images, img)
	}
	return b, nil
}

func (l *Loader) timeOr(t time.Time) time.Time {
	if t.IsZero() {
		return l.now()
	}
	return t
}
