package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// vipLifetimeSpend is the lifetime paid total that marks a customer as VIP.
const vipLifetimeSpend = 10000.0

type CustomerIntelligenceTool struct {
	st  *store.Store
	now func() time.Time
}

func NewCustomerIntelligenceTool(st *store.Store) *CustomerIntelligenceTool {
	return &CustomerIntelligenceTool{st: st, now: time.Now}
}

func (t *CustomerIntelligenceTool) Name() string { return "customer_intelligence" }

func (t *CustomerIntelligenceTool) Description() string {
	return "Customer analytics for a period: top spenders, new vs returning counts, and the VIP list (lifetime spend of $10,000 or more). Default period: last_30_days."
}

func (t *CustomerIntelligenceTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"period": periodProperty("last_30_days"),
			"limit": map[string]any{
				"type":        "integer",
				"description": "Number of top spenders and VIPs to return (default: 5, max: 20).",
			},
		},
		"additionalProperties": false,
	}
}

func (t *CustomerIntelligenceTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Period string `json:"period"`
		Limit  int    `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	w, err := resolvePeriod(p.Period, "last_30_days", t.now())
	if err != nil {
		return tool.Errorf("%v", err), nil
	}
	limit := clampLimit(p.Limit, 5, 20)

	top, err := t.st.TopCustomers(ctx, storeID, w.From, w.To, limit)
	if err != nil {
		return nil, err
	}
	activity, err := t.st.CustomerActivity(ctx, storeID, w.From, w.To)
	if err != nil {
		return nil, err
	}
	vips, err := t.st.VIPCustomers(ctx, storeID, vipLifetimeSpend, limit)
	if err != nil {
		return nil, err
	}

	res := tool.Result{
		"period":                  w.Period,
		"top_spenders":            customerSpendRows(top),
		"new_customers":           activity.New,
		"returning_customers":     activity.Returning,
		"vip_threshold":           vipLifetimeSpend,
		"vip_threshold_formatted": formatUSD(vipLifetimeSpend),
		"vips":                    customerSpendRows(vips),
	}
	if len(top) == 0 && activity.New == 0 && activity.Returning == 0 {
		res["message"] = "No customer activity for " + w.Period + "."
	}
	return res, nil
}

func customerSpendRows(spends []store.CustomerSpend) []map[string]any {
	rows := make([]map[string]any, 0, len(spends))
	for _, cs := range spends {
		row := map[string]any{
			"customer_id":     cs.CustomerID,
			"name":            cs.Name,
			"orders":          cs.Orders,
			"total":           round2(cs.Total),
			"total_formatted": formatUSD(cs.Total),
		}
		if cs.LastOrder != nil {
			row["last_order"] = cs.LastOrder.Format("2006-01-02")
		}
		rows = append(rows, row)
	}
	return rows
}
