package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const repairColumns = `id, store_id, COALESCE(customer_id, 0), item_description, status, quoted_price, promised_at, delivered_at, created_at`

func (s *Store) CreateRepair(ctx context.Context, r *Repair) error {
	if r.Status == "" {
		r.Status = "intake"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	var customerID any
	if r.CustomerID > 0 {
		customerID = r.CustomerID
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO repairs (store_id, customer_id, item_description, status, quoted_price, promised_at, delivered_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.StoreID, customerID, r.ItemDescription, r.Status, r.QuotedPrice, nullTime(r.PromisedAt), nullTime(r.DeliveredAt), r.CreatedAt.UTC())
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

// UpdateRepairStatus moves a repair through its workflow, stamping
// delivered_at when it reaches delivered.
func (s *Store) UpdateRepairStatus(ctx context.Context, storeID, id int64, status string) error {
	var deliveredAt any
	if status == "delivered" {
		deliveredAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE repairs SET status = ?, delivered_at = COALESCE(?, delivered_at)
		WHERE store_id = ? AND id = ?
	`, status, deliveredAt, storeID, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return err
}

func (s *Store) RepairCountsByStatus(ctx context.Context, storeID int64) ([]StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM repairs WHERE store_id = ? GROUP BY status ORDER BY status
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// OverdueRepairs lists undelivered repairs whose promise date has passed.
func (s *Store) OverdueRepairs(ctx context.Context, storeID int64, asOf time.Time, limit int) ([]Repair, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+repairColumns+`
		FROM repairs
		WHERE store_id = ? AND status != 'delivered' AND promised_at IS NOT NULL AND promised_at < ?
		ORDER BY promised_at ASC LIMIT ?
	`, storeID, asOf.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRepairs(rows)
}

// OldestOpenRepair returns nil when every repair is delivered.
func (s *Store) OldestOpenRepair(ctx context.Context, storeID int64) (*Repair, error) {
	r, err := scanRepair(s.db.QueryRowContext(ctx, `
		SELECT `+repairColumns+`
		FROM repairs WHERE store_id = ? AND status != 'delivered'
		ORDER BY created_at ASC LIMIT 1
	`, storeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) RepairsTakenIn(ctx context.Context, storeID int64, from, to time.Time) (int, error) {
	from, to = utcRange(from, to)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM repairs
		WHERE store_id = ? AND created_at >= ? AND created_at <= ?
	`, storeID, from, to).Scan(&count)
	return count, err
}

func (s *Store) RepairsDelivered(ctx context.Context, storeID int64, from, to time.Time) (int, error) {
	from, to = utcRange(from, to)
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM repairs
		WHERE store_id = ? AND status = 'delivered'
		  AND delivered_at IS NOT NULL AND delivered_at >= ? AND delivered_at <= ?
	`, storeID, from, to).Scan(&count)
	return count, err
}

func scanRepair(row interface{ Scan(...any) error }) (Repair, error) {
	var r Repair
	var promised, delivered sql.NullTime
	err := row.Scan(&r.ID, &r.StoreID, &r.CustomerID, &r.ItemDescription, &r.Status,
		&r.QuotedPrice, &promised, &delivered, &r.CreatedAt)
	if err != nil {
		return Repair{}, err
	}
	if promised.Valid {
		t := promised.Time
		r.PromisedAt = &t
	}
	if delivered.Valid {
		t := delivered.Time
		r.DeliveredAt = &t
	}
	return r, nil
}

func collectRepairs(rows *sql.Rows) ([]Repair, error) {
	var repairs []Repair
	for rows.Next() {
		r, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, r)
	}
	return repairs, rows.Err()
}
