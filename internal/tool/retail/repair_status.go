package retail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

type RepairStatusTool struct {
	st  *store.Store
	now func() time.Time
}

func NewRepairStatusTool(st *store.Store) *RepairStatusTool {
	return &RepairStatusTool{st: st, now: time.Now}
}

func (t *RepairStatusTool) Name() string { return "repair_status" }

func (t *RepairStatusTool) Description() string {
	return "Repair shop workload: counts by status (intake, in_progress, ready, delivered), the oldest open ticket, and repairs past their promise date."
}

func (t *RepairStatusTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Overdue repairs to list (default: 10, max: 50).",
			},
		},
		"additionalProperties": false,
	}
}

func (t *RepairStatusTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Limit int `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	now := t.now()
	counts, err := t.st.RepairCountsByStatus(ctx, storeID)
	if err != nil {
		return nil, err
	}
	oldest, err := t.st.OldestOpenRepair(ctx, storeID)
	if err != nil {
		return nil, err
	}
	overdue, err := t.st.OverdueRepairs(ctx, storeID, now, clampLimit(p.Limit, 10, 50))
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int{}
	total, open := 0, 0
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
		total += sc.Count
		if sc.Status != "delivered" {
			open += sc.Count
		}
	}

	overdueRows := make([]map[string]any, 0, len(overdue))
	for _, r := range overdue {
		row := map[string]any{
			"id":           r.ID,
			"item":         r.ItemDescription,
			"status":       r.Status,
			"quoted_price": round2(r.QuotedPrice),
		}
		if r.PromisedAt != nil {
			row["promised_at"] = r.PromisedAt.Format("2006-01-02")
			row["days_overdue"] = daysSince(*r.PromisedAt, now)
		}
		overdueRows = append(overdueRows, row)
	}

	res := tool.Result{
		"total_repairs": total,
		"open_repairs":  open,
		"by_status":     byStatus,
		"overdue_count": len(overdueRows),
		"overdue":       overdueRows,
	}
	if oldest != nil {
		res["oldest_open"] = map[string]any{
			"id":           oldest.ID,
			"item":         oldest.ItemDescription,
			"status":       oldest.Status,
			"days_in_shop": daysSince(oldest.CreatedAt, now),
		}
	}
	if total == 0 {
		res["message"] = "No repairs on file."
	}
	return res, nil
}
