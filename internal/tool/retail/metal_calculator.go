package retail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/tool"
)

// meltOfferBands are the standard buy percentages quoted against melt value.
var meltOfferBands = []int{70, 80, 90}

type MetalCalculatorTool struct {
	quotes *metals.Service
}

func NewMetalCalculatorTool(quotes *metals.Service) *MetalCalculatorTool {
	return &MetalCalculatorTool{quotes: quotes}
}

func (t *MetalCalculatorTool) Name() string { return "metal_calculator" }

func (t *MetalCalculatorTool) Description() string {
	return "Precious metal value calculator: converts a weight and metal type into pure metal content, spot value at the current price, and melt offer bands at 70/80/90%. Weight units: grams (default), ounces (troy), dwt (pennyweight)."
}

func (t *MetalCalculatorTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"metal_type": map[string]any{
				"type":        "string",
				"enum":        metals.MetalTypes(),
				"description": "Metal and purity grade of the item.",
			},
			"weight": map[string]any{
				"type":        "number",
				"description": "Item weight in the given unit. Must be positive.",
			},
			"unit": map[string]any{
				"type":        "string",
				"enum":        []string{"grams", "ounces", "dwt"},
				"description": "Weight unit. Defaults to grams; ounces are troy ounces.",
			},
		},
		"required":             []string{"metal_type", "weight"},
		"additionalProperties": false,
	}
}

func (t *MetalCalculatorTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		MetalType string  `json:"metal_type"`
		Weight    float64 `json:"weight"`
		Unit      string  `json:"unit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	purity, ok := metals.PurityRatio(p.MetalType)
	if !ok {
		return tool.Errorf("unknown metal_type %q", p.MetalType), nil
	}
	if p.Weight <= 0 {
		return tool.Errorf("weight must be positive, got %v", p.Weight), nil
	}
	grams, err := metals.ToGrams(p.Weight, p.Unit)
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	quote, _, err := t.quotes.SpotForMetalType(ctx, p.MetalType)
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	pure := round2(grams * purity)
	spotValue := round2(pure * quote.USDPerGram)

	offers := make([]map[string]any, 0, len(meltOfferBands))
	for _, pct := range meltOfferBands {
		amount := round2(spotValue * float64(pct) / 100)
		offers = append(offers, map[string]any{
			"percent":          pct,
			"amount":           amount,
			"amount_formatted": formatUSD(amount),
		})
	}

	unit := p.Unit
	if unit == "" {
		unit = "grams"
	}
	return tool.Result{
		"metal_type":           p.MetalType,
		"weight":               p.Weight,
		"unit":                 unit,
		"weight_grams":         round2(grams),
		"purity":               purity,
		"pure_metal_content":   pure,
		"spot_price_per_gram":  round2(quote.USDPerGram),
		"spot_price_per_ounce": round2(quote.USDPerTroyOunce),
		"spot_source":          quote.Source,
		"spot_value":           spotValue,
		"spot_value_formatted": formatUSD(spotValue),
		"melt_offers":          offers,
		"summary": fmt.Sprintf("%.2fg of %s contains %.2fg pure metal, worth %s at spot.",
			grams, p.MetalType, pure, formatUSD(spotValue)),
	}, nil
}
