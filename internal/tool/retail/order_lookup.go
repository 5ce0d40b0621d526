package retail

import (
	"context"
	"encoding/json"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

var orderStatuses = []string{"pending", "paid", "refunded", "cancelled"}

type OrderLookupTool struct {
	st *store.Store
}

func NewOrderLookupTool(st *store.Store) *OrderLookupTool {
	return &OrderLookupTool{st: st}
}

func (t *OrderLookupTool) Name() string { return "order_lookup" }

func (t *OrderLookupTool) Description() string {
	return "Most recent orders with customer name, status, payment method, total and item count. Optionally filter by status. Default 10, max 50."
}

func (t *OrderLookupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        orderStatuses,
				"description": "Only orders in this status. Omit for all statuses.",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Orders to return (default: 10, max: 50).",
			},
		},
		"additionalProperties": false,
	}
}

func (t *OrderLookupTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Status string `json:"status"`
		Limit  int    `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	if p.Status != "" && !validOrderStatus(p.Status) {
		return tool.Errorf("unknown status %q (valid: pending, paid, refunded, cancelled)", p.Status), nil
	}

	orders, err := t.st.RecentOrders(ctx, storeID, p.Status, clampLimit(p.Limit, 10, 50))
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, map[string]any{
			"id":              o.ID,
			"customer":        o.CustomerName,
			"status":          o.Status,
			"payment_method":  o.PaymentMethod,
			"total":           round2(o.Total),
			"total_formatted": formatUSD(o.Total),
			"items":           o.ItemCount,
			"created_at":      o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	res := tool.Result{"orders": rows, "count": len(rows)}
	if p.Status != "" {
		res["status"] = p.Status
	}
	if len(rows) == 0 {
		res["message"] = "No orders found."
	}
	return res, nil
}

func validOrderStatus(status string) bool {
	for _, s := range orderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
