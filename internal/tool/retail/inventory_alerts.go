package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// Alert thresholds. Slow stock has not sold in 90 days; dead stock in 180.
const (
	lowStockMax   = 2
	slowStockDays = 90
	deadStockDays = 180
)

type InventoryAlertsTool struct {
	st  *store.Store
	now func() time.Time
}

func NewInventoryAlertsTool(st *store.Store) *InventoryAlertsTool {
	return &InventoryAlertsTool{st: st, now: time.Now}
}

func (t *InventoryAlertsTool) Name() string { return "inventory_alerts" }

func (t *InventoryAlertsTool) Description() string {
	return "Inventory health check: low stock (2 or fewer on hand), slow movers (no sale in 90 days) and dead stock (no sale in 180 days), with counts and the worst offenders. No parameters beyond an optional list size."
}

func (t *InventoryAlertsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Items to list per alert bucket (default: 5, max: 20).",
			},
		},
		"additionalProperties": false,
	}
}

func (t *InventoryAlertsTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Limit int `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}
	limit := clampLimit(p.Limit, 5, 20)

	now := t.now()
	slowCutoff := now.AddDate(0, 0, -slowStockDays)
	deadCutoff := now.AddDate(0, 0, -deadStockDays)

	counts, err := t.st.InventoryAlertCounts(ctx, storeID, lowStockMax, slowCutoff, deadCutoff)
	if err != nil {
		return nil, err
	}
	low, err := t.st.LowStockProducts(ctx, storeID, lowStockMax, limit)
	if err != nil {
		return nil, err
	}
	stale, err := t.st.StaleProducts(ctx, storeID, slowCutoff, limit)
	if err != nil {
		return nil, err
	}

	lowRows := make([]map[string]any, 0, len(low))
	for _, pr := range low {
		lowRows = append(lowRows, map[string]any{
			"name":     pr.Name,
			"sku":      pr.SKU,
			"quantity": pr.Quantity,
			"price":    round2(pr.Price),
		})
	}

	staleRows := make([]map[string]any, 0, len(stale))
	for _, pr := range stale {
		lastMoved := pr.CreatedAt
		if pr.LastSoldAt != nil {
			lastMoved = *pr.LastSoldAt
		}
		staleRows = append(staleRows, map[string]any{
			"name":            pr.Name,
			"sku":             pr.SKU,
			"quantity":        pr.Quantity,
			"price":           round2(pr.Price),
			"days_since_sale": daysSince(lastMoved, now),
		})
	}

	res := tool.Result{
		"low_stock_count":  counts.LowStock,
		"slow_stock_count": counts.SlowStock,
		"dead_stock_count": counts.DeadStock,
		"thresholds": map[string]any{
			"low_stock_max_quantity": lowStockMax,
			"slow_stock_days":        slowStockDays,
			"dead_stock_days":        deadStockDays,
		},
		"low_stock_items": lowRows,
		"stale_items":     staleRows,
	}
	if counts.LowStock == 0 && counts.SlowStock == 0 && counts.DeadStock == 0 {
		res["message"] = "No inventory alerts."
	}
	return res, nil
}
