package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// MemoTrackerTool reports consignment exposure: items held on memo from
// vendors, aged from intake date, with overdue returns flagged.
type MemoTrackerTool struct {
	st  *store.Store
	now func() time.Time
}

func NewMemoTrackerTool(st *store.Store) *MemoTrackerTool {
	return &MemoTrackerTool{st: st, now: time.Now}
}

func (t *MemoTrackerTool) Name() string { return "memo_tracker" }

func (t *MemoTrackerTool) Description() string {
	return "Memo (consignment) exposure: open memo count, total value on the floor, aging buckets at 30/60/90 days, and memos past their due date."
}

func (t *MemoTrackerTool) Parameters() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

func (t *MemoTrackerTool) Execute(ctx context.Context, _ json.RawMessage, storeID int64) (tool.Result, error) {
	now := t.now()
	stats, err := t.st.MemoExposure(ctx, storeID, now)
	if err != nil {
		return nil, err
	}
	memos, err := t.st.OpenMemos(ctx, storeID, 0)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count int
		value float64
	}
	var under30, b30, b60, over90 bucket
	var overdueRows []map[string]any

	for _, m := range memos {
		age := daysSince(m.CreatedAt, now)
		switch {
		case age < 30:
			under30.count++
			under30.value += m.Value
		case age < 60:
			b30.count++
			b30.value += m.Value
		case age < 90:
			b60.count++
			b60.value += m.Value
		default:
			over90.count++
			over90.value += m.Value
		}

		if m.DueAt != nil && m.DueAt.Before(now) {
			overdueRows = append(overdueRows, map[string]any{
				"id":              m.ID,
				"vendor":          m.Vendor,
				"item":            m.ItemDescription,
				"value":           round2(m.Value),
				"value_formatted": formatUSD(m.Value),
				"due_at":          m.DueAt.Format("2006-01-02"),
				"days_overdue":    daysSince(*m.DueAt, now),
			})
		}
	}

	agingRow := func(b bucket) map[string]any {
		return map[string]any{
			"count":           b.count,
			"value":           round2(b.value),
			"value_formatted": formatUSD(b.value),
		}
	}

	res := tool.Result{
		"open_memos":         stats.Open,
		"exposure":           round2(stats.Exposure),
		"exposure_formatted": formatUSD(stats.Exposure),
		"aging": map[string]any{
			"under_30_days": agingRow(under30),
			"days_30_60":    agingRow(b30),
			"days_60_90":    agingRow(b60),
			"over_90_days":  agingRow(over90),
		},
		"overdue_count": stats.Overdue,
		"overdue":       overdueRows,
	}
	if stats.Open == 0 {
		res["message"] = "No open memos."
	}
	return res, nil
}
