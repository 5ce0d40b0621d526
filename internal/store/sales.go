package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateOrder inserts an order and its line items, and stamps last_sold_at
// on the referenced products when the order is paid.
func (s *Store) CreateOrder(ctx context.Context, o *Order) error {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var customerID any
	if o.CustomerID > 0 {
		customerID = o.CustomerID
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (store_id, customer_id, status, payment_method, subtotal, tax, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.StoreID, customerID, o.Status, o.PaymentMethod, o.Subtotal, o.Tax, o.Total, o.CreatedAt.UTC())
	if err != nil {
		return err
	}
	if o.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		var productID any
		if item.ProductID > 0 {
			productID = item.ProductID
		}
		itemRes, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, total)
			VALUES (?, ?, ?, ?, ?, ?)
		`, item.OrderID, productID, item.Name, item.Quantity, item.UnitPrice, item.Total)
		if err != nil {
			return err
		}
		if item.ID, err = itemRes.LastInsertId(); err != nil {
			return err
		}

		if o.Status == "paid" && item.ProductID > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE products SET last_sold_at = ? WHERE id = ? AND store_id = ?
			`, o.CreatedAt.UTC(), item.ProductID, o.StoreID); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (s *Store) GetOrder(ctx context.Context, storeID, id int64) (Order, error) {
	var o Order
	var customerID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store_id, customer_id, status, payment_method, subtotal, tax, total, created_at
		FROM orders WHERE store_id = ? AND id = ?
	`, storeID, id).Scan(&o.ID, &o.StoreID, &customerID, &o.Status, &o.PaymentMethod, &o.Subtotal, &o.Tax, &o.Total, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Order{}, err
	}
	o.CustomerID = customerID.Int64

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, COALESCE(product_id, 0), name, quantity, unit_price, total
		FROM order_items WHERE order_id = ? ORDER BY id
	`, o.ID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

// Sales reads revenue, tax, order count and average ticket for paid orders
// in [from, to].
func (s *Store) Sales(ctx context.Context, storeID int64, from, to time.Time) (SalesSummary, error) {
	from, to = utcRange(from, to)

	var sum SalesSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0)
		FROM orders
		WHERE store_id = ? AND status = 'paid' AND created_at >= ? AND created_at <= ?
	`, storeID, from, to).Scan(&sum.Orders, &sum.Revenue, &sum.Tax)
	if err != nil {
		return SalesSummary{}, err
	}
	if sum.Orders > 0 {
		sum.Average = sum.Revenue / float64(sum.Orders)
	}
	return sum, nil
}

func (s *Store) PaymentBreakdown(ctx context.Context, storeID int64, from, to time.Time) ([]PaymentTotal, error) {
	from, to = utcRange(from, to)

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(NULLIF(payment_method, ''), 'other'), COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE store_id = ? AND status = 'paid' AND created_at >= ? AND created_at <= ?
		GROUP BY 1 ORDER BY 3 DESC
	`, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []PaymentTotal
	for rows.Next() {
		var pt PaymentTotal
		if err := rows.Scan(&pt.Method, &pt.Orders, &pt.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, pt)
	}
	return totals, rows.Err()
}

// OrderStatusTotals groups all orders in the window by status, regardless of
// payment state. Used by end-of-day reconciliation.
func (s *Store) OrderStatusTotals(ctx context.Context, storeID int64, from, to time.Time) ([]StatusTotal, error) {
	from, to = utcRange(from, to)

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE store_id = ? AND created_at >= ? AND created_at <= ?
		GROUP BY status ORDER BY status
	`, storeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []StatusTotal
	for rows.Next() {
		var st StatusTotal
		if err := rows.Scan(&st.Status, &st.Orders, &st.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, st)
	}
	return totals, rows.Err()
}

func (s *Store) RecentOrders(ctx context.Context, storeID int64, status string, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT o.id, COALESCE(c.first_name || ' ' || c.last_name, ''), o.status, o.payment_method, o.total,
		       (SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE order_id = o.id),
		       o.created_at
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id AND c.store_id = o.store_id
		WHERE o.store_id = ?`
	args := []any{storeID}
	if status != "" {
		query += ` AND o.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY o.created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Status, &o.PaymentMethod, &o.Total, &o.ItemCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// TopProducts ranks paid line items by revenue or quantity.
func (s *Store) TopProducts(ctx context.Context, storeID int64, from, to time.Time, by string, limit int) ([]ProductSales, error) {
	from, to = utcRange(from, to)
	if limit <= 0 {
		limit = 5
	}

	order := `SUM(oi.total) DESC`
	if by == "quantity" {
		order = `SUM(oi.quantity) DESC`
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(oi.product_id, 0), oi.name, COALESCE(SUM(oi.quantity), 0), COALESCE(SUM(oi.total), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.store_id = ? AND o.status = 'paid' AND o.created_at >= ? AND o.created_at <= ?
		GROUP BY oi.product_id, oi.name
		ORDER BY `+order+` LIMIT ?
	`, storeID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []ProductSales
	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Quantity, &ps.Revenue); err != nil {
			return nil, err
		}
		sales = append(sales, ps)
	}
	return sales, rows.Err()
}
