package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.July, 20, 10, 0, 0, 0, time.UTC)

func TestNextProofStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    ProofStatus
		action  ProofAction
		want    ProofStatus
		wantErr bool
	}{
		{"approve pending", ProofPendingReview, ActionApprove, ProofApproved, false},
		{"approve after revisions", ProofRevisionsRequested, ActionApprove, ProofApproved, false},
		{"approve twice", ProofApproved, ActionApprove, "", true},
		{"request revisions pending", ProofPendingReview, ActionRequestRevisions, ProofRevisionsRequested, false},
		{"request revisions approved", ProofApproved, ActionRequestRevisions, ProofRevisionsRequested, false},
		{"request revisions twice", ProofRevisionsRequested, ActionRequestRevisions, "", true},
		{"feedback on pending", ProofPendingReview, ActionAddFeedback, ProofRevisionsRequested, false},
		{"feedback on approved", ProofApproved, ActionAddFeedback, ProofRevisionsRequested, false},
		{"feedback on revisions", ProofRevisionsRequested, ActionAddFeedback, ProofRevisionsRequested, false},
		{"unknown action", ProofPendingReview, ProofAction("archive"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextProofStatus(tt.from, tt.action)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewProofStartsPending(t *testing.T) {
	p := NewProof("PreWedding_001.jpg", "/media/proof_1.jpg", testNow)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, ProofPendingReview, p.Status)
	assert.Empty(t, p.Feedback)
	assert.NotNil(t, p.Feedback)
	assert.Equal(t, testNow, p.UploadedAt)
}

func TestProofApproveRequestApprove(t *testing.T) {
	p := NewProof("ad.png", "/media/ad.png", testNow)

	require.NoError(t, p.Approve())
	require.NoError(t, p.RequestRevisions())
	require.NoError(t, p.Approve())

	assert.Equal(t, ProofApproved, p.Status)
	assert.Empty(t, p.Feedback)
}

func TestProofApproveTwiceRejected(t *testing.T) {
	p := NewProof("ad.png", "/media/ad.png", testNow)
	require.NoError(t, p.Approve())

	err := p.Approve()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, ProofApproved, p.Status)
}

func TestProofAddFeedbackForcesRevisions(t *testing.T) {
	for _, start := range []ProofStatus{ProofPendingReview, ProofApproved, ProofRevisionsRequested} {
		t.Run(string(start), func(t *testing.T) {
			p := NewProof("ad.png", "/media/ad.png", testNow)
			p.Status = start
			first, err := NewFeedback("Earlier note", "Studio", testNow)
			require.NoError(t, err)
			p.Feedback = append(p.Feedback, first)

			fb, err := NewFeedback("Please use a brighter blue for the CTA button.", "Modern Designs Inc.", testNow)
			require.NoError(t, err)
			require.NoError(t, p.AddFeedback(fb))

			assert.Len(t, p.Feedback, 2)
			assert.Same(t, fb, p.Feedback[1])
			assert.Equal(t, ProofRevisionsRequested, p.Status)
		})
	}
}

func TestNewFeedback(t *testing.T) {
	fb, err := NewFeedback("  tighten the crop  ", "  ", testNow)
	require.NoError(t, err)
	assert.Equal(t, "tighten the crop", fb.Comment)
	assert.Equal(t, DefaultCommenter, fb.CommenterName)
	assert.Equal(t, testNow, fb.CreatedAt)

	_, err = NewFeedback("   ", "Client", testNow)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProjectFindProof(t *testing.T) {
	p := NewProof("a.jpg", "/media/a.jpg", testNow)
	project := &Project{Proofs: []*Proof{p}}

	assert.Same(t, p, project.FindProof(p.ID))
	assert.Nil(t, project.FindProof("proof-missing"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "NotFound", Kind(ErrNotFound))
	assert.Equal(t, "ValidationFailed", Kind(ErrInvalidTransition))
	assert.Equal(t, "ExternalServiceFailure", Kind(ErrExternalService))
	assert.Equal(t, "Internal", Kind(errors.New("disk full")))
}
