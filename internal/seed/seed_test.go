package seed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h00x7r/Media-Flow/internal/db"
	"github.com/h00x7r/Media-Flow/internal/domain"
	"github.com/h00x7r/Media-Flow/internal/store"
	"github.com/h00x7r/Media-Flow/internal/store/memory"
)

const testCover = "https://placehold.co/600x400.png"

var testNow = time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

type repos struct {
	projects interface {
		projectRepository
		GetByID(ctx context.Context, id string) (*domain.Project, error)
		List(ctx context.Context) ([]*domain.Project, error)
	}
	boards interface {
		moodBoardRepository
		GetByID(ctx context.Context, id string) (*domain.MoodBoard, error)
	}
}

func backends(t *testing.T) map[string]repos {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	mem := memory.New()
	return map[string]repos{
		"sqlite": {projects: store.NewProjectStore(d), boards: store.NewMoodBoardStore(d)},
		"memory": {projects: mem.Projects(), boards: mem.MoodBoards()},
	}
}

func newLoader(r repos) *Loader {
	l := NewLoader(r.projects, r.boards, testCover, slog.Default())
	l.now = func() time.Time { return testNow }
	return l
}

func TestLoadDemoFixture(t *testing.T) {
	f, err := Load("testdata/demo.yaml")
	require.NoError(t, err)
	require.Len(t, f.Projects, 2)
	require.Len(t, f.MoodBoards, 1)

	p := f.Projects[0]
	assert.Equal(t, "proj-lakeside", p.ID)
	assert.Equal(t, domain.ProjectInProgress, p.Status)
	assert.Equal(t, "Jordan & Casey", p.ClientName)
	assert.True(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC).Equal(p.CreatedAt))
	require.Len(t, p.Proofs, 2)
	assert.Equal(t, domain.ProofRevisionsRequested, p.Proofs[0].Status)
	assert.Len(t, p.Proofs[0].Feedback, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("projects: [unclosed"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := Load("testdata/demo.yaml")
	require.NoError(t, err)

	for name, r := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			applied, err := newLoader(r).Apply(ctx, f)
			require.NoError(t, err)
			assert.True(t, applied)

			p, err := r.projects.GetByID(ctx, "proj-lakeside")
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, testCover, p.CoverImage)
			require.NotNil(t, p.DueDate)
			assert.Equal(t, "2024-08-15", p.DueDate.Format(time.DateOnly))
			require.Len(t, p.Proofs, 2)

			ceremony := p.Proofs[0]
			assert.Equal(t, "proof-ceremony", ceremony.ID)
			assert.Equal(t, domain.ProofRevisionsRequested, ceremony.Status)
			require.Len(t, ceremony.Feedback, 2)
			assert.Equal(t, "fb-1", ceremony.Feedback[0].ID)
			assert.Equal(t, domain.DefaultCommenter, ceremony.Feedback[1].CommenterName)
			assert.Equal(t, domain.ProofPendingReview, p.Proofs[1].Status)

			all, err := r.projects.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "Bakery Rebrand", all[0].Name)
			assert.Equal(t, domain.ProjectPlanning, all[0].Status)

			b, err := r.boards.GetByID(ctx, "mood-autumn")
			require.NoError(t, err)
			require.NotNil(t, b)
			require.Len(t, b.Images, 2)
			assert.Equal(t, "img-linen", b.Images[0].ID)
			assert.Equal(t, domain.DefaultImageAltText, b.Images[1].AltText)
			assert.Equal(t, "Palette reference", b.Images[1].Notes)
		})
	}
}

func TestApplySkipsNonEmptyStore(t *testing.T) {
	r := backends(t)["memory"]
	ctx := context.Background()
	f := &Fixture{Projects: []Project{{
		Name:        "Existing Shoot",
		Description: "Already in the store",
		ClientName:  "Riley",
	}}}

	l := newLoader(r)
	applied, err := l.Apply(ctx, f)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = l.Apply(ctx, f)
	require.NoError(t, err)
	assert.False(t, applied)

	n, err := r.projects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestApplyFillsMissingTimestamps(t *testing.T) {
	r := backends(t)["memory"]
	f := &Fixture{MoodBoards: []MoodBoard{{
		ID:     "mood-bare",
		Name:   "Bare board",
		Images: []Image{{URL: "https://images.example.com/a.jpg"}},
	}}}

	_, err := newLoader(r).Apply(context.Background(), f)
	require.NoError(t, err)

	b, err := r.boards.GetByID(context.Background(), "mood-bare")
	require.NoError(t, err)
	assert.True(t, testNow.Equal(b.CreatedAt))
	assert.True(t, testNow.Equal(b.Images[0].AddedAt))
}

func TestApplyRejectsInvalidFixture(t *testing.T) {
	tests := []struct {
		name    string
		fixture *Fixture
	}{
		{
			name:    "short project name",
			fixture: &Fixture{Projects: []Project{{Name: "ab", Description: "Long enough text", ClientName: "Sam"}}},
		},
		{
			name: "unknown proof status",
			fixture: &Fixture{Projects: []Project{{
				Name: "Valid name", Description: "Long enough text", ClientName: "Sam",
				Proofs: []Proof{{FileName: "a.png", FileURL: "https://x/a.png", Status: "Lost"}},
			}}},
		},
		{
			name:    "image without url",
			fixture: &Fixture{MoodBoards: []MoodBoard{{Name: "Board", Images: []Image{{AltText: "empty"}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(backends(t)["memory"]).Apply(context.Background(), tt.fixture)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
