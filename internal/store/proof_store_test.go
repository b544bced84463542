package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

func setupProofTest(t *testing.T) (*ProjectStore, *ProofStore, *domain.Project) {
	t.Helper()
	d := openTestDB(t)
	projects := NewProjectStore(d)
	p := newTestProject(t, "Proofing Project", testNow)
	require.NoError(t, projects.Create(context.Background(), p))
	return projects, NewProofStore(d), p
}

func TestProofStoreCreateAndGet(t *testing.T) {
	_, proofs, p := setupProofTest(t)
	ctx := context.Background()

	proof := domain.NewProof("cover.pdf", "/media/cover.pdf", testNow)
	require.NoError(t, proofs.Create(ctx, p.ID, proof))

	got, err := proofs.GetByID(ctx, p.ID, proof.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cover.pdf", got.FileName)
	assert.Equal(t, "/media/cover.pdf", got.FileURL)
	assert.Equal(t, domain.ProofPendingReview, got.Status)
	assert.True(t, testNow.Equal(got.UploadedAt))
	assert.Empty(t, got.Feedback)
}

func TestProofStoreGetByIDScopedToProject(t *testing.T) {
	projects, proofs, p := setupProofTest(t)
	ctx := context.Background()

	other := newTestProject(t, "Other Project", testNow)
	require.NoError(t, projects.Create(ctx, other))

	proof := domain.NewProof("a.png", "/media/a.png", testNow)
	require.NoError(t, proofs.Create(ctx, p.ID, proof))

	got, err := proofs.GetByID(ctx, other.ID, proof.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = proofs.GetByID(ctx, p.ID, "proof-missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProofStoreCreateUnknownProject(t *testing.T) {
	_, proofs, _ := setupProofTest(t)

	err := proofs.Create(context.Background(), "proj-missing", domain.NewProof("a.png", "/media/a.png", testNow))
	assert.Error(t, err)
}

func TestProofStoreUpdateStatus(t *testing.T) {
	_, proofs, p := setupProofTest(t)
	ctx := context.Background()

	proof := domain.NewProof("a.png", "/media/a.png", testNow)
	require.NoError(t, proofs.Create(ctx, p.ID, proof))

	require.NoError(t, proofs.UpdateStatus(ctx, proof.ID, domain.ProofApproved))

	got, err := proofs.GetByID(ctx, p.ID, proof.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProofApproved, got.Status)

	assert.ErrorIs(t, proofs.UpdateStatus(ctx, "proof-missing", domain.ProofApproved), domain.ErrNotFound)
}

func TestProofStoreAppendFeedback(t *testing.T) {
	_, proofs, p := setupProofTest(t)
	ctx := context.Background()

	proof := domain.NewProof("a.png", "/media/a.png", testNow)
	require.NoError(t, proofs.Create(ctx, p.ID, proof))

	for i, comment := range []string{"first note", "second note", "third note"} {
		fb, err := domain.NewFeedback(comment, "Sam", testNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, proofs.AppendFeedback(ctx, proof.ID, fb, domain.ProofRevisionsRequested))
	}

	got, err := proofs.GetByID(ctx, p.ID, proof.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProofRevisionsRequested, got.Status)
	require.Len(t, got.Feedback, 3)
	assert.Equal(t, "first note", got.Feedback[0].Comment)
	assert.Equal(t, "second note", got.Feedback[1].Comment)
	assert.Equal(t, "third note", got.Feedback[2].Comment)
}

func TestProofStoreAppendFeedbackUnknownProof(t *testing.T) {
	_, proofs, _ := setupProofTest(t)
	ctx := context.Background()

	fb, err := domain.NewFeedback("orphan", "Sam", testNow)
	require.NoError(t, err)

	err = proofs.AppendFeedback(ctx, "proof-missing", fb, domain.ProofRevisionsRequested)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProofStoreCountByStatus(t *testing.T) {
	_, proofs, p := setupProofTest(t)
	ctx := context.Background()

	pending := domain.NewProof("a.png", "/media/a.png", testNow)
	approved := domain.NewProof("b.png", "/media/b.png", testNow)
	approved.Status = domain.ProofApproved
	require.NoError(t, proofs.Create(ctx, p.ID, pending))
	require.NoError(t, proofs.Create(ctx, p.ID, approved))

	n, err := proofs.CountByStatus(ctx, domain.ProofPendingReview)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = proofs.CountByStatus(ctx, domain.ProofRevisionsRequested)
	require.NoError(t, err)
	assert.Zero(t, n)
}
