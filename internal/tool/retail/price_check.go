package retail

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/tool"
)

type PriceCheckTool struct {
	st     *store.Store
	quotes *metals.Service
}

func NewPriceCheckTool(st *store.Store, quotes *metals.Service) *PriceCheckTool {
	return &PriceCheckTool{st: st, quotes: quotes}
}

func (t *PriceCheckTool) Name() string { return "price_check" }

func (t *PriceCheckTool) Description() string {
	return "Look up products by name or SKU: price, cost, margin percent and quantity on hand, plus current melt value for items with metal content."
}

func (t *PriceCheckTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Product name or SKU fragment (case-insensitive).",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Products to return (default: 5, max: 20).",
			},
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

func (t *PriceCheckTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
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

	products, err := t.st.SearchProducts(ctx, storeID, query, clampLimit(p.Limit, 5, 20))
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(products))
	for _, pr := range products {
		row := map[string]any{
			"id":              pr.ID,
			"sku":             pr.SKU,
			"name":            pr.Name,
			"category":        pr.Category,
			"price":           round2(pr.Price),
			"price_formatted": formatUSD(pr.Price),
			"cost":            round2(pr.Cost),
			"cost_formatted":  formatUSD(pr.Cost),
			"margin_percent":  marginPercent(pr.Price, pr.Cost),
			"quantity":        pr.Quantity,
			"status":          pr.Status,
		}
		if pr.MetalType != "" && pr.WeightGrams > 0 {
			if melt, quote, err := t.quotes.MeltValue(ctx, pr.MetalType, pr.WeightGrams); err == nil {
				row["metal_type"] = pr.MetalType
				row["weight_grams"] = pr.WeightGrams
				row["melt_value"] = round2(melt)
				row["melt_value_formatted"] = formatUSD(melt)
				row["spot_source"] = quote.Source
			}
		}
		rows = append(rows, row)
	}

	res := tool.Result{"products": rows, "count": len(rows)}
	if len(rows) == 0 {
		res["message"] = "No products match \"" + query + "\"."
	}
	return res, nil
}
