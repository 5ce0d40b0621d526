package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) InsertSuggestion(ctx context.Context, sg *Suggestion) error {
	if sg.Status == "" {
		sg.Status = "pending"
	}
	if sg.Metadata == "" {
		sg.Metadata = "{}"
	}
	if sg.CreatedAt.IsZero() {
		sg.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_suggestions (store_id, subject_type, subject_id, kind, content, metadata, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sg.StoreID, sg.SubjectType, sg.SubjectID, sg.Kind, sg.Content, sg.Metadata, sg.Status, sg.CreatedAt.UTC())
	if err != nil {
		return err
	}
	sg.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetSuggestion(ctx context.Context, storeID, id int64) (Suggestion, error) {
	var sg Suggestion
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, subject_type, subject_id, kind, content, metadata, status, created_at
		FROM ai_suggestions WHERE store_id = ? AND id = ?
	`, storeID, id).Scan(&sg.ID, &sg.StoreID, &sg.SubjectType, &sg.SubjectID, &sg.Kind, &sg.Content, &sg.Metadata, &sg.Status, &sg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Suggestion{}, fmt.Errorf("suggestion %d: %w", id, ErrNotFound)
	}
	return sg, err
}

// UpdateSuggestionStatus records the human review decision: accepted or
// rejected.
func (s *Store) UpdateSuggestionStatus(ctx context.Context, storeID, id int64, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ai_suggestions SET status = ? WHERE store_id = ? AND id = ?
	`, status, storeID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("suggestion %d: %w", id, ErrNotFound)
	}
	return err
}

func (s *Store) ListSuggestions(ctx context.Context, storeID int64, status string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, store_id, subject_type, subject_id, kind, content, metadata, status, created_at
		FROM ai_suggestions WHERE store_id = ?`
	args := []any{storeID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []Suggestion
	for rows.Next() {
		var sg Suggestion
		if err := rows.Scan(&sg.ID, &sg.StoreID, &sg.SubjectType, &sg.SubjectID, &sg.Kind, &sg.Content, &sg.Metadata, &sg.Status, &sg.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, rows.Err()
}
