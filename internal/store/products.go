package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const productColumns = `id, store_id, sku, name, category, metal_type, weight_grams, cost, price, quantity, status, created_at, last_sold_at`

func (s *Store) scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	var lastSold sql.NullTime
	err := row.Scan(&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Category, &p.MetalType,
		&p.WeightGrams, &p.Cost, &p.Price, &p.Quantity, &p.Status, &p.CreatedAt, &lastSold)
	if err != nil {
		return Product{}, err
	}
	if lastSold.Valid {
		t := lastSold.Time
		p.LastSoldAt = &t
	}
	return p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *Product) error {
	if p.Status == "" {
		p.Status = "active"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (store_id, sku, name, category, metal_type, weight_grams, cost, price, quantity, status, created_at, last_sold_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.StoreID, p.SKU, p.Name, p.Category, p.MetalType, p.WeightGrams, p.Cost, p.Price, p.Quantity, p.Status, p.CreatedAt.UTC(), nullTime(p.LastSoldAt))
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetProduct(ctx context.Context, storeID, id int64) (Product, error) {
	p, err := s.scanProduct(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id = ? AND id = ?`, storeID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, err
}

// SearchProducts matches a case-insensitive substring of the name or an
// exact SKU.
func (s *Store) SearchProducts(ctx context.Context, storeID int64, query string, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	needle := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = ? AND (LOWER(name) LIKE ? OR LOWER(sku) = LOWER(?))
		ORDER BY name LIMIT ?
	`, storeID, needle, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectProducts(rows)
}

func (s *Store) LowStockProducts(ctx context.Context, storeID int64, maxQuantity, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = ? AND status = 'active' AND quantity <= ?
		ORDER BY quantity ASC, name LIMIT ?
	`, storeID, maxQuantity, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectProducts(rows)
}

// StaleProducts returns in-stock items whose last sale (or intake, when
// never sold) predates the cutoff.
func (s *Store) StaleProducts(ctx context.Context, storeID int64, cutoff time.Time, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE store_id = ? AND status = 'active' AND quantity > 0
		  AND COALESCE(last_sold_at, created_at) < ?
		ORDER BY COALESCE(last_sold_at, created_at) ASC LIMIT ?
	`, storeID, cutoff.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectProducts(rows)
}

// InventoryAlertCounts buckets active stock into low quantity, slow movers
// (idle since slowCutoff but not yet deadCutoff) and dead stock (idle since
// deadCutoff).
func (s *Store) InventoryAlertCounts(ctx context.Context, storeID int64, maxQuantity int, slowCutoff, deadCutoff time.Time) (AlertCounts, error) {
	var counts AlertCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN quantity <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity > 0
				AND COALESCE(last_sold_at, created_at) < ?
				AND COALESCE(last_sold_at, created_at) >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity > 0
				AND COALESCE(last_sold_at, created_at) < ? THEN 1 ELSE 0 END), 0)
		FROM products
		WHERE store_id = ? AND status = 'active'
	`, maxQuantity, slowCutoff.UTC(), deadCutoff.UTC(), deadCutoff.UTC(), storeID).
		Scan(&counts.LowStock, &counts.SlowStock, &counts.DeadStock)
	return counts, err
}

func (s *Store) InventoryValuation(ctx context.Context, storeID int64) ([]CategoryValuation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(category, ''), 'uncategorized'),
		       COUNT(*),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(price * quantity), 0),
		       COALESCE(SUM(cost * quantity), 0)
		FROM products
		WHERE store_id = ? AND status = 'active' AND quantity > 0
		GROUP BY 1 ORDER BY 4 DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var valuations []CategoryValuation
	for rows.Next() {
		var cv CategoryValuation
		if err := rows.Scan(&cv.Category, &cv.Items, &cv.Units, &cv.RetailValue, &cv.CostValue); err != nil {
			return nil, err
		}
		valuations = append(valuations, cv)
	}
	return valuations, rows.Err()
}

// MetalHoldings sums on-hand precious-metal weight by metal type, for melt
// valuation.
func (s *Store) MetalHoldings(ctx context.Context, storeID int64) ([]MetalHolding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metal_type, COUNT(*), COALESCE(SUM(weight_grams * quantity), 0)
		FROM products
		WHERE store_id = ? AND status = 'active' AND quantity > 0
		  AND metal_type != '' AND weight_grams > 0
		GROUP BY metal_type ORDER BY 3 DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []MetalHolding
	for rows.Next() {
		var mh MetalHolding
		if err := rows.Scan(&mh.MetalType, &mh.Items, &mh.TotalGrams); err != nil {
			return nil, err
		}
		holdings = append(holdings, mh)
	}
	return holdings, rows.Err()
}

func (s *Store) collectProducts(rows *sql.Rows) ([]Product, error) {
	var products []Product
	for rows.Next() {
		p, err := s.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
