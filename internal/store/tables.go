package store

import (
	"context"
	"fmt"
	"strings"
)

// TableQuery is a pre-validated page request. The table layer guarantees
// SortKey and Filters only contain declared keys; the maps below still pin
// every identifier that reaches the SQL string.
type TableQuery struct {
	Table    string
	Search   string
	Filters  map[string]string
	SortKey  string
	SortDesc bool
	Limit    int
	Offset   int
}

type TableRows struct {
	Rows  []map[string]any
	Total int
}

type tableSpec struct {
	from         string
	columns      string
	keys         []string
	sortExprs    map[string]string
	filterExprs  map[string]string
	searchExpr   string
	defaultSort  string
	tenantColumn string
}

var tableSpecs = map[string]tableSpec{
	"orders": {
		from: `orders o LEFT JOIN customers c ON c.id = o.customer_id AND c.store_id = o.store_id`,
		columns: `o.id, COALESCE(c.first_name || ' ' || c.last_name, ''), o.status, o.payment_method,
			o.subtotal, o.tax, o.total, o.created_at`,
		keys: []string{"id", "customer", "status", "payment_method", "subtotal", "tax", "total", "created_at"},
		sortExprs: map[string]string{
			"id":         "o.id",
			"total":      "o.total",
			"status":     "o.status",
			"created_at": "o.created_at",
		},
		filterExprs: map[string]string{
			"status":         "o.status",
			"payment_method": "o.payment_method",
		},
		searchExpr:   `LOWER(COALESCE(c.first_name || ' ' || c.last_name, '')) LIKE ?`,
		defaultSort:  "o.created_at DESC",
		tenantColumn: "o.store_id",
	},
	"products": {
		from: `products p`,
		columns: `p.id, p.sku, p.name, p.category, p.metal_type, p.weight_grams,
			p.cost, p.price, p.quantity, p.status, p.created_at`,
		keys: []string{"id", "sku", "name", "category", "metal_type", "weight_grams", "cost", "price", "quantity", "status", "created_at"},
		sortExprs: map[string]string{
			"id":         "p.id",
			"sku":        "p.sku",
			"name":       "p.name",
			"price":      "p.price",
			"quantity":   "p.quantity",
			"created_at": "p.created_at",
		},
		filterExprs: map[string]string{
			"category":   "p.category",
			"status":     "p.status",
			"metal_type": "p.metal_type",
		},
		searchExpr:   `(LOWER(p.name) LIKE ? OR LOWER(p.sku) LIKE ?)`,
		defaultSort:  "p.created_at DESC",
		tenantColumn: "p.store_id",
	},
	"repairs": {
		from: `repairs r LEFT JOIN customers c ON c.id = r.customer_id AND c.store_id = r.store_id`,
		columns: `r.id, COALESCE(c.first_name || ' ' || c.last_name, ''), r.item_description, r.status,
			r.quoted_price, r.promised_at, r.created_at`,
		keys: []string{"id", "customer", "item_description", "status", "quoted_price", "promised_at", "created_at"},
		sortExprs: map[string]string{
			"id":           "r.id",
			"status":       "r.status",
			"quoted_price": "r.quoted_price",
			"promised_at":  "r.promised_at",
			"created_at":   "r.created_at",
		},
		filterExprs: map[string]string{
			"status": "r.status",
		},
		searchExpr:   `LOWER(r.item_description) LIKE ?`,
		defaultSort:  "r.created_at DESC",
		tenantColumn: "r.store_id",
	},
	"memos": {
		from:    `memos m`,
		columns: `m.id, m.vendor, m.item_description, m.value, m.status, m.due_at, m.created_at`,
		keys:    []string{"id", "vendor", "item_description", "value", "status", "due_at", "created_at"},
		sortExprs: map[string]string{
			"id":         "m.id",
			"vendor":     "m.vendor",
			"value":      "m.value",
			"due_at":     "m.due_at",
			"created_at": "m.created_at",
		},
		filterExprs: map[string]string{
			"status": "m.status",
		},
		searchExpr:   `(LOWER(m.vendor) LIKE ? OR LOWER(m.item_description) LIKE ?)`,
		defaultSort:  "m.created_at DESC",
		tenantColumn: "m.store_id",
	},
}

// TablePage runs the count + page queries for one admin table. Identifier
// positions in the SQL come only from tableSpecs, never from the request.
func (s *Store) TablePage(ctx context.Context, storeID int64, q TableQuery) (TableRows, error) {
	spec, ok := tableSpecs[q.Table]
	if !ok {
		return TableRows{}, fmt.Errorf("%w: %s", ErrUnknownTable, q.Table)
	}
	if q.Limit <= 0 {
		q.Limit = 25
	}

	where := []string{spec.tenantColumn + " = ?"}
	args := []any{storeID}

	for key, value := range q.Filters {
		expr, ok := spec.filterExprs[key]
		if !ok {
			return TableRows{}, fmt.Errorf("filter %q not allowed on table %s", key, q.Table)
		}
		where = append(where, expr+" = ?")
		args = append(args, value)
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		where = append(where, spec.searchExpr)
		for i := 0; i < strings.Count(spec.searchExpr, "?"); i++ {
			args = append(args, needle)
		}
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM ` + spec.from + ` WHERE ` + whereClause
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return TableRows{}, err
	}

	orderBy := spec.defaultSort
	if q.SortKey != "" {
		expr, ok := spec.sortExprs[q.SortKey]
		if !ok {
			return TableRows{}, fmt.Errorf("sort %q not allowed on table %s", q.SortKey, q.Table)
		}
		orderBy = expr + " ASC"
		if q.SortDesc {
			orderBy = expr + " DESC"
		}
	}

	pageQuery := `SELECT ` + spec.columns + ` FROM ` + spec.from +
		` WHERE ` + whereClause + ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		return TableRows{}, err
	}
	defer rows.Close()

	out := TableRows{Total: total}
	values := make([]any, len(spec.keys))
	ptrs := make([]any, len(spec.keys))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return TableRows{}, err
		}
		row := make(map[string]any, len(spec.keys))
		for i, key := range spec.keys {
			row[key] = normalizeCell(values[i])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

func normalizeCell(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	default:
		return v
	}
}
