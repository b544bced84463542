package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

type ProjectStore struct {
	db *sql.DB
}

func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// Create inserts p together with any proofs and feedback it already carries.
func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, client_name, type, status, due_date, created_at, cover_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.ClientName, string(p.Type), string(p.Status),
		nullTime(p.DueDate), p.CreatedAt.UTC(), p.CoverImage)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, proof := range p.Proofs {
		if err := insertProof(ctx, tx, p.ID, proof); err != nil {
			return err
		}
		for _, fb := range proof.Feedback {
			if err := insertFeedback(ctx, tx, proof.ID, fb); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}
	return nil
}

// GetByID returns the project with its proofs and feedback, or nil if absent.
func (s *ProjectStore) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p := &domain.Project{}
	var dueDate sql.NullTime
	var projectType, status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, client_name, type, status, due_date, created_at, cover_image
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.ClientName, &projectType, &status, &dueDate, &p.CreatedAt, &p.CoverImage)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	p.Type = domain.ProjectType(projectType)
	p.Status = domain.ProjectStatus(status)
	p.DueDate = timePtr(dueDate)

	proofs, err := loadProofs(ctx, s.db, `WHERE project_id = ?`, id)
	if err != nil {
		return nil, err
	}
	p.Proofs = proofs[id]
	if p.Proofs == nil {
		p.Proofs = []*domain.Proof{}
	}
	return p, nil
}

// List returns every project, newest first, with proofs and feedback loaded.
func (s *ProjectStore) List(ctx context.Context) ([]*domain.Project, error) {
	return s.list(ctx, `ORDER BY created_at DESC, rowid DESC`)
}

// ListDueBetween returns projects that are not Completed and whose due date
// lies in [from, to], soonest first.
func (s *ProjectStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Project, error) {
	return s.list(ctx, `WHERE due_date IS NOT NULL AND due_date >= ? AND due_date <= ? AND status != ?
		ORDER BY due_date ASC`, from.UTC(), to.UTC(), string(domain.ProjectCompleted))
}

func (s *ProjectStore) list(ctx context.Context, clause string, args ...any) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, client_name, type, status, due_date, created_at, cover_image
		FROM projects `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []*domain.Project{}
	for rows.Next() {
		p := &domain.Project{}
		var dueDate sql.NullTime
		var projectType, status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ClientName, &projectType, &status, &dueDate, &p.CreatedAt, &p.CoverImage); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Type = domain.ProjectType(projectType)
		p.Status = domain.ProjectStatus(status)
		p.DueDate = timePtr(dueDate)
		p.Proofs = []*domain.Proof{}
		projects = append(projects, p)
	}
	err = rows.Err()
	closeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	if len(projects) == 0 {
		return projects, nil
	}

	proofs, err := loadProofs(ctx, s.db, ``)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if ps, ok := proofs[p.ID]; ok {
			p.Proofs = ps
		}
	}
	return projects, nil
}

func (s *ProjectStore) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return requireAffected(result, "project")
}

func (s *ProjectStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// CountActive counts projects that are not Completed.
func (s *ProjectStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projects WHERE status != ?
	`, string(domain.ProjectCompleted)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active projects: %w", err)
	}
	return n, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to roll back transaction", "error", err)
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

// requireAffected maps a zero-row update or delete to domain.ErrNotFound.
func requireAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %w", entity, domain.ErrNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
