package store

import (
	"context"
	"database/sql"
	"time"
)

func (s *Store) CreateMemo(ctx context.Context, m *Memo) error {
	if m.Status == "" {
		m.Status = "open"
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO memos (store_id, vendor, item_description, value, status, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.StoreID, m.Vendor, m.ItemDescription, m.Value, m.Status, nullTime(m.DueAt), m.CreatedAt.UTC())
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *Store) OpenMemos(ctx context.Context, storeID int64, limit int) ([]Memo, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, store_id, vendor, item_description, value, status, due_at, created_at
		FROM memos
		WHERE store_id = ? AND status = 'open'
		ORDER BY created_at ASC LIMIT ?
	`, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memos []Memo
	for rows.Next() {
		var m Memo
		var due sql.NullTime
		if err := rows.Scan(&m.ID, &m.StoreID, &m.Vendor, &m.ItemDescription, &m.Value, &m.Status, &due, &m.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			t := due.Time
			m.DueAt = &t
		}
		memos = append(memos, m)
	}
	return memos, rows.Err()
}

// MemoExposure totals open memos and counts the ones past due.
func (s *Store) MemoExposure(ctx context.Context, storeID int64, asOf time.Time) (MemoStats, error) {
	var stats MemoStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(value), 0),
		       COALESCE(SUM(CASE WHEN due_at IS NOT NULL AND due_at < ? THEN 1 ELSE 0 END), 0)
		FROM memos
		WHERE store_id = ? AND status = 'open'
	`, asOf.UTC(), storeID).Scan(&stats.Open, &stats.Exposure, &stats.Overdue)
	return stats, err
}
