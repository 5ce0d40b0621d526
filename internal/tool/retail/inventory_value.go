package retail

import (
	"context"
	"encoding/json"

	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

// InventoryValueTool values active on-hand stock three ways: retail, cost
// and melt (fine-metal content at spot).
type InventoryValueTool struct {
	st     *store.Store
	quotes *metals.Service
}

func NewInventoryValueTool(st *store.Store, quotes *metals.Service) *InventoryValueTool {
	return &InventoryValueTool{st: st, quotes: quotes}
}

func (t *InventoryValueTool) Name() string { return "inventory_value" }

func (t *InventoryValueTool) Description() string {
	return "On-hand inventory valuation: retail and cost value by category, total melt value of precious-metal stock at current spot prices, and grand totals. Takes no parameters."
}

func (t *InventoryValueTool) Parameters() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

func (t *InventoryValueTool) Execute(ctx context.Context, _ json.RawMessage, storeID int64) (tool.Result, error) {
	valuations, err := t.st.InventoryValuation(ctx, storeID)
	if err != nil {
		return nil, err
	}
	holdings, err := t.st.MetalHoldings(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var retail, cost float64
	categories := make([]map[string]any, 0, len(valuations))
	for _, cv := range valuations {
		retail += cv.RetailValue
		cost += cv.CostValue
		categories = append(categories, map[string]any{
			"category":               cv.Category,
			"items":                  cv.Items,
			"units":                  cv.Units,
			"retail_value":           round2(cv.RetailValue),
			"retail_value_formatted": formatUSD(cv.RetailValue),
			"cost_value":             round2(cv.CostValue),
			"cost_value_formatted":   formatUSD(cv.CostValue),
		})
	}

	var melt float64
	metalRows := make([]map[string]any, 0, len(holdings))
	for _, mh := range holdings {
		value, quote, err := t.quotes.MeltValue(ctx, mh.MetalType, mh.TotalGrams)
		if err != nil {
			continue
		}
		melt += value
		metalRows = append(metalRows, map[string]any{
			"metal_type":           mh.MetalType,
			"items":                mh.Items,
			"total_grams":          round2(mh.TotalGrams),
			"melt_value":           round2(value),
			"melt_value_formatted": formatUSD(value),
			"spot_source":          quote.Source,
		})
	}

	res := tool.Result{
		"categories":             categories,
		"melt_by_metal":          metalRows,
		"retail_total":           round2(retail),
		"retail_total_formatted": formatUSD(retail),
		"cost_total":             round2(cost),
		"cost_total_formatted":   formatUSD(cost),
		"melt_total":             round2(melt),
		"melt_total_formatted":   formatUSD(melt),
	}
	if len(categories) == 0 {
		res["message"] = "No active inventory on hand."
	}
	return res, nil
}
