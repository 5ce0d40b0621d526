package retail

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

type CustomerLookupTool struct {
	st *store.Store
}

func NewCustomerLookupTool(st *store.Store) *CustomerLookupTool {
	return &CustomerLookupTool{st: st}
}

func (t *CustomerLookupTool) Name() string { return "customer_lookup" }

func (t *CustomerLookupTool) Description() string {
	return "Find customers by name, email or phone. Returns profiles with lifetime spend, order count, last purchase date and whether they qualify as VIP ($10,000+ lifetime)."
}

func (t *CustomerLookupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Name, email or phone fragment to search for (case-insensitive).",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Profiles to return (default: 5, max: 20).",
			},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

func (t *CustomerLookupTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	query := strings.TrimSpace(p.Query)
	if query == "" {
		return tool.Errorf("query must not be empty"), nil
	}

	profiles, err := t.st.SearchCustomers(ctx, storeID, query, clampLimit(p.Limit, 5, 20))
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(profiles))
	for _, cp := range profiles {
		row := map[string]any{
			"id":                       cp.ID,
			"name":                     cp.FullName(),
			"email":                    cp.Email,
			"phone":                    cp.Phone,
			"lifetime_spend":           round2(cp.LifetimeSpend),
			"lifetime_spend_formatted": formatUSD(cp.LifetimeSpend),
			"orders":                   cp.OrderCount,
			"vip":                      cp.LifetimeSpend >= vipLifetimeSpend,
		}
		if cp.LastPurchase != nil {
			row["last_purchase"] = cp.LastPurchase.Format("2006-01-02")
		}
		rows = append(rows, row)
	}

	res := tool.Result{"customers": rows, "count": len(rows)}
	if len(rows) == 0 {
		res["message"] = "No customers match \"" + query + "\"."
	}
	return res, nil
}
