package domain

import (
	"fmt"
	"strings"
	"time"
)

type ProofStatus string

const (
	ProofPendingReview      ProofStatus = "Pending Review"
	ProofApproved           ProofStatus = "Approved"
	ProofRevisionsRequested ProofStatus = "Revisions Requested"
)

// DefaultCommenter is recorded when feedback arrives without a commenter name.
const DefaultCommenter = "Client"

// ProofAction is a review operation applied to a proof.
type ProofAction string

const (
	ActionApprove          ProofAction = "approve"
	ActionRequestRevisions ProofAction = "request-revisions"
	ActionAddFeedback      ProofAction = "add-feedback"
)

// proofTransitions maps an action to the statuses it may be applied from and
// the status it produces. Adding feedback is accepted from every status.
var proofTransitions = map[ProofAction]struct {
	from []ProofStatus
	to   ProofStatus
}{
	ActionApprove: {
		from: []ProofStatus{ProofPendingReview, ProofRevisionsRequested},
		to:   ProofApproved,
	},
	ActionRequestRevisions: {
		from: []ProofStatus{ProofPendingReview, ProofApproved},
		to:   ProofRevisionsRequested,
	},
	ActionAddFeedback: {
		from: []ProofStatus{ProofPendingReview, ProofApproved, ProofRevisionsRequested},
		to:   ProofRevisionsRequested,
	},
}

func (s ProofStatus) Valid() bool {
	switch s {
	case ProofPendingReview, ProofApproved, ProofRevisionsRequested:
		return true
	}
	return false
}

// NextProofStatus returns the status a proof in status from moves to when
// action is applied, or ErrInvalidTransition.
func NextProofStatus(from ProofStatus, action ProofAction) (ProofStatus, error) {
	t, ok := proofTransitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	for _, s := range t.from {
		if s == from {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s a proof that is %s", ErrInvalidTransition, action, from)
}

// NewProof returns a proof awaiting review with an empty feedback log.
func NewProof(fileName, fileURL string, uploadedAt time.Time) *Proof {
	return &Proof{
		ID:         NewProofID(),
		FileName:   fileName,
		FileURL:    fileURL,
		UploadedAt: uploadedAt,
		Status:     ProofPendingReview,
		Feedback:   []*Feedback{},
	}
}

// NewFeedback validates and builds a feedback entry. The comment is trimmed
// and must be non-empty.
func NewFeedback(comment, commenterName string, createdAt time.Time) (*Feedback, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, validationf("feedback comment is required")
	}
	commenterName = strings.TrimSpace(commenterName)
	if commenterName == "" {
		commenterName = DefaultCommenter
	}
	return &Feedback{
		ID:            NewFeedbackID(),
		Comment:       comment,
		CommenterName: commenterName,
		CreatedAt:     createdAt,
	}, nil
}

// Approve moves the proof to Approved. The proof is untouched on error.
func (p *Proof) Approve() error {
	return p.apply(ActionApprove)
}

// RequestRevisions moves the proof to Revisions Requested. Existing feedback
// is not required.
func (p *Proof) RequestRevisions() error {
	return p.apply(ActionRequestRevisions)
}

// AddFeedback appends fb to the feedback log and forces the proof into
// Revisions Requested, whatever its previous status.
func (p *Proof) AddFeedback(fb *Feedback) error {
	next, err := NextProofStatus(p.Status, ActionAddFeedback)
	if err != nil {
		return err
	}
	p.Feedback = append(p.Feedback, fb)
	p.Status = next
	return nil
}

func (p *Proof) apply(action ProofAction) error {
	next, err := NextProofStatus(p.Status, action)
	if err != nil {
		return err
	}
	p.Status = next
	return nil
}

// FindProof returns the proof with the given id, or nil.
func (p *Project) FindProof(proofID string) *Proof {
	for _, proof := range p.Proofs {
		if proof.ID == proofID {
			return proof
		}
	}
	return nil
}
