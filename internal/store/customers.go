package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

func (s *Store) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (store_id, first_name, last_name, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.StoreID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt.UTC())
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

// TopCustomers ranks customers by paid spend inside the window.
func (s *Store) TopCustomers(ctx context.Context, storeID int64, from, to time.Time, limit int) ([]CustomerSpend, error) {
	from, to = utcRange(from, to)
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.first_name || ' ' || c.last_name, COUNT(o.id), COALESCE(SUM(o.total), 0), MAX(o.created_at)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id AND c.store_id = o.store_id
		WHERE o.store_id = ? AND o.status = 'paid' AND o.created_at >= ? AND o.created_at <= ?
		GROUP BY c.id ORDER BY 4 DESC LIMIT ?
	`, storeID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomerSpend(rows)
}

// VIPCustomers lists customers whose lifetime paid spend meets the
// threshold.
func (s *Store) VIPCustomers(ctx context.Context, storeID int64, threshold float64, limit int) ([]CustomerSpend, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.first_name || ' ' || c.last_name, COUNT(o.id), COALESCE(SUM(o.total), 0), MAX(o.created_at)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id AND c.store_id = o.store_id
		WHERE o.store_id = ? AND o.status = 'paid'
		GROUP BY c.id HAVING SUM(o.total) >= ?
		ORDER BY 4 DESC LIMIT ?
	`, storeID, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCustomerSpend(rows)
}

// CustomerActivity splits customers with a paid order inside the window
// into first-time and returning buyers.
func (s *Store) CustomerActivity(ctx context.Context, storeID int64, from, to time.Time) (CustomerCounts, error) {
	from, to = utcRange(from, to)

	var counts CustomerCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN first_at >= ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN first_at < ? THEN 1 ELSE 0 END), 0)
		FROM (
			SELECT customer_id, MIN(created_at) AS first_at
			FROM orders
			WHERE store_id = ? AND status = 'paid' AND customer_id IS NOT NULL
			GROUP BY customer_id
		)
		WHERE customer_id IN (
			SELECT DISTINCT customer_id FROM orders
			WHERE store_id = ? AND status = 'paid' AND customer_id IS NOT NULL
			  AND created_at >= ? AND created_at <= ?
		)
	`, from, from, storeID, storeID, from, to).Scan(&counts.New, &counts.Returning)
	return counts, err
}

// SearchCustomers matches name, email or phone and joins in lifetime paid
// spend for each hit.
func (s *Store) SearchCustomers(ctx context.Context, storeID int64, query string, limit int) ([]CustomerProfile, error) {
	if limit <= 0 {
		limit = 5
	}
	trimmed := strings.TrimSpace(query)
	needle := "%" + strings.ToLower(trimmed) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.store_id, c.first_name, c.last_name, c.email, c.phone, c.created_at,
		       COALESCE(SUM(CASE WHEN o.status = 'paid' THEN o.total END), 0),
		       COUNT(CASE WHEN o.status = 'paid' THEN o.id END),
		       MAX(CASE WHEN o.status = 'paid' THEN o.created_at END)
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.store_id = c.store_id
		WHERE c.store_id = ?
		  AND (LOWER(c.first_name || ' ' || c.last_name) LIKE ?
		       OR LOWER(c.email) LIKE ?
		       OR c.phone LIKE ?)
		GROUP BY c.id ORDER BY 8 DESC LIMIT ?
	`, storeID, needle, needle, "%"+trimmed+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []CustomerProfile
	for rows.Next() {
		var p CustomerProfile
		var lastPurchase sql.NullString
		if err := rows.Scan(&p.ID, &p.StoreID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
			&p.CreatedAt, &p.LifetimeSpend, &p.OrderCount, &lastPurchase); err != nil {
			return nil, err
		}
		p.LastPurchase = scanTime(lastPurchase)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func collectCustomerSpend(rows *sql.Rows) ([]CustomerSpend, error) {
	var spends []CustomerSpend
	for rows.Next() {
		var cs CustomerSpend
		var lastOrder sql.NullString
		if err := rows.Scan(&cs.CustomerID, &cs.Name, &cs.Orders, &cs.Total, &lastOrder); err != nil {
			return nil, err
		}
		cs.LastOrder = scanTime(lastOrder)
		spends = append(spends, cs)
	}
	return spends, rows.Err()
}
