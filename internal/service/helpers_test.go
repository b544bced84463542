package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/h00x7r/Media-Flow/internal/activity"
	"github.com/h00x7r/Media-Flow/internal/db"
	"github.com/h00x7r/Media-Flow/internal/mediastore"
	"github.com/h00x7r/Media-Flow/internal/store"
	"github.com/h00x7r/Media-Flow/internal/store/memory"
	"github.com/h00x7r/Media-Flow/internal/stylist"
)

const testCover = "https://placehold.co/600x400.png"

var testNow = time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

// stubMediaStore is a minimal in-memory mediastore.MediaStore for tests.
type stubMediaStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	mimes   map[string]string
	seq     int
	saveErr error
}

func newStubMediaStore() *stubMediaStore {
	return &stubMediaStore{saved: make(map[string][]byte), mimes: make(map[string]string)}
}

func (s *stubMediaStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("%s_%d", prefix, s.seq)
	s.saved[key] = data
	s.mimes[key] = mimeType
	return key, nil
}

func (s *stubMediaStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.saved[key]
	if !ok {
		return nil, "", mediastore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), s.mimes[key], nil
}

func (s *stubMediaStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[key]; !ok {
		return mediastore.ErrNotFound
	}
	delete(s.saved, key)
	return nil
}

func (s *stubMediaStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// stubGenerator is a stylist.Generator that counts calls.
type stubGenerator struct {
	prompt     string
	guide      *stylist.StyleGuide
	err        error
	calls      atomic.Int32
	lastImages []stylist.Image
	ctxErr     error
}

func (g *stubGenerator) GenerateImagePrompt(ctx context.Context, _ string) (string, error) {
	g.calls.Add(1)
	g.ctxErr = ctx.Err()
	return g.prompt, g.err
}

func (g *stubGenerator) GenerateStyleGuide(ctx context.Context, images []stylist.Image) (*stylist.StyleGuide, error) {
	g.calls.Add(1)
	g.ctxErr = ctx.Err()
	g.lastImages = images
	return g.guide, g.err
}

// failingFeed rejects every write.
type failingFeed struct{}

func (failingFeed) Record(context.Context, activity.Entry) error {
	return errors.New("feed unavailable")
}

func (failingFeed) Recent(context.Context, int) ([]activity.Entry, error) {
	return nil, errors.New("feed unavailable")
}

func (failingFeed) Count(context.Context, activity.Kind) (int64, error) {
	return 0, errors.New("feed unavailable")
}

type repositories struct {
	projects projectRepository
	proofs   proofRepository
	boards   moodBoardRepository
}

// backends returns the SQLite and in-memory stores so the service contract is
// checked against both.
func backends(t *testing.T) map[string]repositories {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	mem := memory.New()
	return map[string]repositories{
		"sqlite": {
			projects: store.NewProjectStore(d),
			proofs:   store.NewProofStore(d),
			boards:   store.NewMoodBoardStore(d),
		},
		"memory": {
			projects: mem.Projects(),
			proofs:   mem.Proofs(),
			boards:   mem.MoodBoards(),
		},
	}
}

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func newProjectService(repos repositories, media mediastore.MediaStore, feed activity.Feed) *ProjectService {
	svc := NewProjectService(repos.projects, repos.proofs, media, feed, testCover, slog.Default())
	svc.now = fixedClock(testNow)
	return svc
}
