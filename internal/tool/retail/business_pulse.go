package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// BusinessPulseTool is the one-call store health snapshot: month-over-month
// sales, repair and memo load, and inventory alert counts.
type BusinessPulseTool struct {
	st  *store.Store
	now func() time.Time
}

func NewBusinessPulseTool(st *store.Store) *BusinessPulseTool {
	return &BusinessPulseTool{st: st, now: time.Now}
}

func (t *BusinessPulseTool) Name() string { return "business_pulse" }

func (t *BusinessPulseTool) Description() string {
	return "Store health snapshot: this month vs last month revenue and orders, open and overdue repairs, memo exposure, and inventory alert counts. Good first call for 'how is the business doing'. Takes no parameters."
}

func (t *BusinessPulseTool) Parameters() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

func (t *BusinessPulseTool) Execute(ctx context.Context, _ json.RawMessage, storeID int64) (tool.Result, error) {
	now := t.now()
	thisMonth, _ := resolvePeriod("this_month", "", now)
	lastMonth, _ := resolvePeriod("last_month", "", now)

	current, err := t.st.Sales(ctx, storeID, thisMonth.From, thisMonth.To)
	if err != nil {
		return nil, err
	}
	previous, err := t.st.Sales(ctx, storeID, lastMonth.From, lastMonth.To)
	if err != nil {
		return nil, err
	}

	repairCounts, err := t.st.RepairCountsByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	overdueRepairs, err := t.st.OverdueRepairs(ctx, storeID, now, 200)
	if err != nil {
		return nil, err
	}
	memoStats, err := t.st.MemoExposure(ctx, storeID, now)
	if err != nil {
		return nil, err
	}
	alerts, err := t.st.InventoryAlertCounts(ctx, storeID, lowStockMax,
		now.AddDate(0, 0, -slowStockDays), now.AddDate(0, 0, -deadStockDays))
	if err != nil {
		return nil, err
	}

	openRepairs := 0
	for _, sc := range repairCounts {
		if sc.Status != "delivered" {
			openRepairs += sc.Count
		}
	}

	res := tool.Result{
		"this_month": map[string]any{
			"revenue":           round2(current.Revenue),
			"revenue_formatted": formatUSD(current.Revenue),
			"orders":            current.Orders,
		},
		"last_month": map[string]any{
			"revenue":           round2(previous.Revenue),
			"revenue_formatted": formatUSD(previous.Revenue),
			"orders":            previous.Orders,
		},
		"repairs": map[string]any{
			"open":    openRepairs,
			"overdue": len(overdueRepairs),
		},
		"memos": map[string]any{
			"open":               memoStats.Open,
			"exposure":           round2(memoStats.Exposure),
			"exposure_formatted": formatUSD(memoStats.Exposure),
			"overdue":            memoStats.Overdue,
		},
		"inventory_alerts": map[string]any{
			"low_stock":  alerts.LowStock,
			"slow_stock": alerts.SlowStock,
			"dead_stock": alerts.DeadStock,
		},
	}
	if previous.Revenue > 0 {
		res["revenue_change_percent"] = round1((current.Revenue - previous.Revenue) / previous.Revenue * 100)
	}
	if current.Orders == 0 && previous.Orders == 0 && openRepairs == 0 && memoStats.Open == 0 {
		res["message"] = "No activity recorded yet."
	}
	return res, nil
}
