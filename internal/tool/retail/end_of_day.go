package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// EndOfDayTool is the closing reconciliation: today's money by payment
// method and order status, refunds, repair movement and the expected cash
// drawer.
type EndOfDayTool struct {
	st  *store.Store
	now func() time.Time
}

func NewEndOfDayTool(st *store.Store) *EndOfDayTool {
	return &EndOfDayTool{st: st, now: time.Now}
}

func (t *EndOfDayTool) Name() string { return "end_of_day" }

func (t *EndOfDayTool) Description() string {
	return "End-of-day closing report for today: revenue and order totals by payment method and status, refunds, repairs taken in and delivered, and the expected cash drawer (cash payments collected). Takes no parameters."
}

func (t *EndOfDayTool) Parameters() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

func (t *EndOfDayTool) Execute(ctx context.Context, _ json.RawMessage, storeID int64) (tool.Result, error) {
	now := t.now()
	from, to := startOfDay(now), now

	sum, err := t.st.Sales(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := t.st.PaymentBreakdown(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	statuses, err := t.st.OrderStatusTotals(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	repairsIn, err := t.st.RepairsTakenIn(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	repairsOut, err := t.st.RepairsDelivered(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}

	var drawer float64
	methods := make([]map[string]any, 0, len(payments))
	for _, pt := range payments {
		if pt.Method == "cash" {
			drawer = pt.Amount
		}
		methods = append(methods, map[string]any{
			"method":           pt.Method,
			"orders":           pt.Orders,
			"amount":           round2(pt.Amount),
			"amount_formatted": formatUSD(pt.Amount),
		})
	}

	refunds := map[string]any{"orders": 0, "amount": 0.0, "amount_formatted": formatUSD(0)}
	statusRows := make([]map[string]any, 0, len(statuses))
	for _, st := range statuses {
		if st.Status == "refunded" {
			refunds = map[string]any{
				"orders":           st.Orders,
				"amount":           round2(st.Amount),
				"amount_formatted": formatUSD(st.Amount),
			}
		}
		statusRows = append(statusRows, map[string]any{
			"status":           st.Status,
			"orders":           st.Orders,
			"amount":           round2(st.Amount),
			"amount_formatted": formatUSD(st.Amount),
		})
	}

	res := tool.Result{
		"date":                      now.Format("2006-01-02"),
		"total_orders":              sum.Orders,
		"revenue":                   round2(sum.Revenue),
		"revenue_formatted":         formatUSD(sum.Revenue),
		"tax":                       round2(sum.Tax),
		"payment_methods":           methods,
		"status_totals":             statusRows,
		"refunds":                   refunds,
		"repairs_taken_in":          repairsIn,
		"repairs_delivered":         repairsOut,
		"expected_drawer":           round2(drawer),
		"expected_drawer_formatted": formatUSD(drawer),
	}
	if sum.Orders == 0 && len(statusRows) == 0 && repairsIn == 0 && repairsOut == 0 {
		res["message"] = "Nothing recorded today."
	}
	return res, nil
}
