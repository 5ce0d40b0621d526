package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

type TopProductsTool struct {
	st  *store.Store
	now func() time.Time
}

func NewTopProductsTool(st *store.Store) *TopProductsTool {
	return &TopProductsTool{st: st, now: time.Now}
}

func (t *TopProductsTool) Name() string { return "top_products" }

func (t *TopProductsTool) Description() string {
	return "Best-selling products for a period, ranked by revenue or by units sold. Counts paid orders only. Default: top 5 by revenue over the last 30 days."
}

func (t *TopProductsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"period": periodProperty("last_30_days"),
			"by": map[string]any{
				"type":        "string",
				"enum":        []string{"revenue", "quantity"},
				"description": "Ranking metric. Defaults to revenue.",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Number of products to return (default: 5, max: 20).",
			},
		},
		"additionalProperties": false,
	}
}

func (t *TopProductsTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Period string `json:"period"`
		By     string `json:"by"`
		Limit  int    `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	by := p.By
	switch by {
	case "":
		by = "revenue"
	case "revenue", "quantity":
	default:
		return tool.Errorf("unknown ranking %q (valid: revenue, quantity)", p.By), nil
	}

	w, err := resolvePeriod(p.Period, "last_30_days", t.now())
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	sales, err := t.st.TopProducts(ctx, storeID, w.From, w.To, by, clampLimit(p.Limit, 5, 20))
	if err != nil {
		return nil, err
	}

	products := make([]map[string]any, 0, len(sales))
	for i, ps := range sales {
		products = append(products, map[string]any{
			"rank":              i + 1,
			"name":              ps.Name,
			"quantity":          ps.Quantity,
			"revenue":           round2(ps.Revenue),
			"revenue_formatted": formatUSD(ps.Revenue),
		})
	}

	res := tool.Result{
		"period":   w.Period,
		"by":       by,
		"products": products,
	}
	if len(products) == 0 {
		res["message"] = "No product sales for " + w.Period + "."
	}
	return res, nil
}
