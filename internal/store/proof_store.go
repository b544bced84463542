package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

type ProofStore struct {
	db *sql.DB
}

func NewProofStore(db *sql.DB) *ProofStore {
	return &ProofStore{db: db}
}

// Create appends proof to the project's proof sequence.
func (s *ProofStore) Create(ctx context.Context, projectID string, proof *domain.Proof) error {
	return insertProof(ctx, s.db, projectID, proof)
}

// GetByID returns the proof with its feedback log, or nil if the project has
// no proof with that id.
func (s *ProofStore) GetByID(ctx context.Context, projectID, proofID string) (*domain.Proof, error) {
	proofs, err := loadProofs(ctx, s.db, `WHERE project_id = ? AND id = ?`, projectID, proofID)
	if err != nil {
		return nil, err
	}
	if len(proofs[projectID]) == 0 {
		return nil, nil
	}
	return proofs[projectID][0], nil
}

func (s *ProofStore) UpdateStatus(ctx context.Context, proofID string, status domain.ProofStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE proofs SET status = ? WHERE id = ?
	`, string(status), proofID)
	if err != nil {
		return fmt.Errorf("failed to update proof status: %w", err)
	}
	return requireAffected(result, "proof")
}

// AppendFeedback adds fb to the proof's log and sets its status in a single
// transaction.
func (s *ProofStore) AppendFeedback(ctx context.Context, proofID string, fb *domain.Feedback, status domain.ProofStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `
		UPDATE proofs SET status = ? WHERE id = ?
	`, string(status), proofID)
	if err != nil {
		return fmt.Errorf("failed to update proof status: %w", err)
	}
	if err := requireAffected(result, "proof"); err != nil {
		return err
	}

	if err := insertFeedback(ctx, tx, proofID, fb); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feedback: %w", err)
	}
	return nil
}

func (s *ProofStore) CountByStatus(ctx context.Context, status domain.ProofStatus) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM proofs WHERE status = ?
	`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count proofs: %w", err)
	}
	return n, nil
}

func insertProof(ctx context.Context, db execer, projectID string, proof *domain.Proof) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO proofs (id, project_id, file_name, file_url, status, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)
	`, proof.ID, projectID, proof.FileName, proof.FileURL, string(proof.Status), proof.UploadedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create proof: %w", err)
	}
	return nil
}

func insertFeedback(ctx context.Context, db execer, proofID string, fb *domain.Feedback) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO feedback (id, proof_id, comment, commenter_name, created_at) VALUES (?, ?, ?, ?, ?)
	`, fb.ID, proofID, fb.Comment, fb.CommenterName, fb.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

// loadProofs returns proofs matching where, grouped by project id in
// insertion order, each with its feedback log in insertion order.
func loadProofs(ctx context.Context, db querier, where string, args ...any) (map[string][]*domain.Proof, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, project_id, file_name, file_url, status, uploaded_at FROM proofs `+where+`
		ORDER BY rowid ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}

	byProject := make(map[string][]*domain.Proof)
	byID := make(map[string]*domain.Proof)
	for rows.Next() {
		proof := &domain.Proof{Feedback: []*domain.Feedback{}}
		var projectID, status string
		if err := rows.Scan(&proof.ID, &projectID, &proof.FileName, &proof.FileURL, &status, &proof.UploadedAt); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan proof: %w", err)
		}
		proof.Status = domain.ProofStatus(status)
		byProject[projectID] = append(byProject[projectID], proof)
		byID[proof.ID] = proof
	}
	err = rows.Err()
	closeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("error iterating proofs: %w", err)
	}

	if len(byID) == 0 {
		return byProject, nil
	}

	if err := loadFeedback(ctx, db, byID, where, args...); err != nil {
		return nil, err
	}
	return byProject, nil
}

// loadFeedback fills in the feedback of proofs selected by the same proofWhere
// filter, so the bound parameters stay fixed however many proofs match.
func loadFeedback(ctx context.Context, db querier, proofs map[string]*domain.Proof, proofWhere string, args ...any) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, proof_id, comment, commenter_name, created_at FROM feedback
		WHERE proof_id IN (SELECT id FROM proofs `+proofWhere+`)
		ORDER BY rowid ASC
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		fb := &domain.Feedback{}
		var proofID string
		if err := rows.Scan(&fb.ID, &proofID, &fb.Comment, &fb.CommenterName, &fb.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan feedback: %w", err)
		}
		if proof, ok := proofs[proofID]; ok {
			proof.Feedback = append(proof.Feedback, fb)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating feedback: %w", err)
	}
	return nil
}
