package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/h00x7r/Media-Flow/internal/domain"
)

type MoodBoardStore struct {
	db *sql.DB
}

func NewMoodBoardStore(db *sql.DB) *MoodBoardStore {
	return &MoodBoardStore{db: db}
}

// Create inserts b together with any images it already carries.
func (s *MoodBoardStore) Create(ctx context.Context, b *domain.MoodBoard) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO mood_boards (id, name, description, created_at, cover_image) VALUES (?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Description, b.CreatedAt.UTC(), b.CoverImage)
	if err != nil {
		return fmt.Errorf("failed to create mood board: %w", err)
	}

	for i, img := range b.Images {
		if err := insertImage(ctx, tx, b.ID, i+1, img); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mood board: %w", err)
	}
	return nil
}

// GetByID returns the board with its images in order, or nil if absent.
func (s *MoodBoardStore) GetByID(ctx context.Context, id string) (*domain.MoodBoard, error) {
	b := &domain.MoodBoard{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, cover_image FROM mood_boards WHERE id = ?
	`, id).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.CoverImage)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mood board: %w", err)
	}

	images, err := s.loadImages(ctx, `WHERE board_id = ?`, id)
	if err != nil {
		return nil, err
	}
	b.Images = images[id]
	if b.Images == nil {
		b.Images = []*domain.MoodBoardImage{}
	}
	return b, nil
}

// List returns every board, newest first, with images loaded.
func (s *MoodBoardStore) List(ctx context.Context) ([]*domain.MoodBoard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, cover_image FROM mood_boards
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood boards: %w", err)
	}

	boards := []*domain.MoodBoard{}
	for rows.Next() {
		b := &domain.MoodBoard{Images: []*domain.MoodBoardImage{}}
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.CoverImage); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("failed to scan mood board: %w", err)
		}
		boards = append(boards, b)
	}
	err = rows.Err()
	closeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("error iterating mood boards: %w", err)
	}

	if len(boards) == 0 {
		return boards, nil
	}

	images, err := s.loadImages(ctx, ``)
	if err != nil {
		return nil, err
	}
	for _, b := range boards {
		if imgs, ok := images[b.ID]; ok {
			b.Images = imgs
		}
	}
	return boards, nil
}

// AddImage appends img after the board's last image.
func (s *MoodBoardStore) AddImage(ctx context.Context, boardID string, img *domain.MoodBoardImage) error {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) + 1 FROM mood_board_images WHERE board_id = ?
	`, boardID).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to get next image position: %w", err)
	}
	return insertImage(ctx, s.db, boardID, next, img)
}

// RemoveImage deletes the image; the positions of the remaining images keep
// their relative order.
func (s *MoodBoardStore) RemoveImage(ctx context.Context, boardID, imageID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM mood_board_images WHERE board_id = ? AND id = ?
	`, boardID, imageID)
	if err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return requireAffected(result, "image")
}

func (s *MoodBoardStore) SetCoverImage(ctx context.Context, boardID, url string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE mood_boards SET cover_image = ? WHERE id = ?
	`, url, boardID)
	if err != nil {
		return fmt.Errorf("failed to set cover image: %w", err)
	}
	return requireAffected(result, "mood board")
}

func (s *MoodBoardStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mood_boards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count mood boards: %w", err)
	}
	return n, nil
}

func (s *MoodBoardStore) loadImages(ctx context.Context, where string, args ...any) (map[string][]*domain.MoodBoardImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, board_id, url, alt_text, notes, added_at, storage_key FROM mood_board_images `+where+`
		ORDER BY board_id, position ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer closeRows(rows)

	byBoard := make(map[string][]*domain.MoodBoardImage)
	for rows.Next() {
		img := &domain.MoodBoardImage{}
		var boardID string
		if err := rows.Scan(&img.ID, &boardID, &img.URL, &img.AltText, &img.Notes, &img.AddedAt, &img.StorageKey); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		byBoard[boardID] = append(byBoard[boardID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}
	return byBoard, nil
}

func insertImage(ctx context.Context, db execer, boardID string, position int, img *domain.MoodBoardImage) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO mood_board_images (id, board_id, position, url, alt_text, notes, added_at, storage_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, img.ID, boardID, position, img.URL, img.AltText, img.Notes, img.AddedAt.UTC(), img.StorageKey)
	if err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}
	return nil
}
