package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// SalesSummaryTool reports paid-order revenue for a period with a payment
// method breakdown.
type SalesSummaryTool struct {
	st  *store.Store
	now func() time.Time
}

func NewSalesSummaryTool(st *store.Store) *SalesSummaryTool {
	return &SalesSummaryTool{st: st, now: time.Now}
}

func (t *SalesSummaryTool) Name() string { return "sales_summary" }

func (t *SalesSummaryTool) Description() string {
	return "Sales totals for a period: revenue, order count, average ticket, tax collected, and a breakdown by payment method. Counts paid orders only. Use for 'how did we do today' or 'sales this month' questions. Default period: today."
}

func (t *SalesSummaryTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"period": periodProperty("today"),
		},
		"additionalProperties": false,
	}
}

func (t *SalesSummaryTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Period string `json:"period"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	w, err := resolvePeriod(p.Period, "today", t.now())
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	sum, err := t.st.Sales(ctx, storeID, w.From, w.To)
	if err != nil {
		return nil, err
	}
	payments, err := t.st.PaymentBreakdown(ctx, storeID, w.From, w.To)
	if err != nil {
		return nil, err
	}

	methods := make([]map[string]any, 0, len(payments))
	for _, pt := range payments {
		methods = append(methods, map[string]any{
			"method":           pt.Method,
			"orders":           pt.Orders,
			"amount":           round2(pt.Amount),
			"amount_formatted": formatUSD(pt.Amount),
		})
	}

	res := tool.Result{
		"period":                  w.Period,
		"total_orders":            sum.Orders,
		"revenue":                 round2(sum.Revenue),
		"revenue_formatted":       formatUSD(sum.Revenue),
		"tax":                     round2(sum.Tax),
		"tax_formatted":           formatUSD(sum.Tax),
		"average_order":           round2(sum.Average),
		"average_order_formatted": formatUSD(sum.Average),
		"payment_methods":         methods,
	}
	if sum.Orders == 0 {
		res["message"] = "No paid sales for " + w.Period + "."
	}
	return res, nil
}
