package retail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/tool"
)

// scrapOfferTiers is the over-the-counter gold buying ladder, quoted against
// melt value.
var scrapOfferTiers = []int{70, 80, 85}

type ScrapIntakeTool struct {
	quotes *metals.Service
}

func NewScrapIntakeTool(quotes *metals.Service) *ScrapIntakeTool {
	return &ScrapIntakeTool{quotes: quotes}
}

func (t *ScrapIntakeTool) Name() string { return "scrap_intake" }

func (t *ScrapIntakeTool) Description() string {
	return "Gold buying calculator for scrap intake: weight and karat to melt value at current spot, with the standard offer ladder at 70/80/85% of melt and the store margin at each tier."
}

func (t *ScrapIntakeTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weight": map[string]any{
				"type":        "number",
				"description": "Scrap weight in the given unit. Must be positive.",
			},
			"karat": map[string]any{
				"type":        "integer",
				"enum":        []int{10, 14, 18, 22, 24},
				"description": "Gold karat grade of the scrap.",
			},
			"unit": map[string]any{
				"type":        "string",
				"enum":        []string{"grams", "ounces", "dwt"},
				"description": "Weight unit. Defaults to grams; ounces are troy ounces.",
			},
		},
		"required":             []string{"weight", "karat"},
		"additionalProperties": false,
	}
}

func (t *ScrapIntakeTool) Execute(ctx context.Context, params json.RawMessage, storeID int64) (tool.Result, error) {
	var p struct {
		Weight float64 `json:"weight"`
		Karat  float64 `json:"karat"`
		Unit   string  `json:"unit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	if p.Weight <= 0 {
		return tool.Errorf("weight must be positive, got %v", p.Weight), nil
	}
	karat := int(p.Karat)
	purity, ok := metals.KaratPurity(karat)
	if !ok || float64(karat) != p.Karat {
		return tool.Errorf("unknown karat %v (valid: 10, 14, 18, 22, 24)", p.Karat), nil
	}
	grams, err := metals.ToGrams(p.Weight, p.Unit)
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	quote, err := t.quotes.Spot(ctx, "gold")
	if err != nil {
		return tool.Errorf("%v", err), nil
	}

	pure := round2(grams * purity)
	melt := round2(pure * quote.USDPerGram)

	offers := make([]map[string]any, 0, len(scrapOfferTiers))
	for _, pct := range scrapOfferTiers {
		offer := round2(melt * float64(pct) / 100)
		margin := round2(melt - offer)
		offers = append(offers, map[string]any{
			"percent":          pct,
			"offer":            offer,
			"offer_formatted":  formatUSD(offer),
			"margin":           margin,
			"margin_formatted": formatUSD(margin),
			"margin_percent":   round1(100 - float64(pct)),
		})
	}

	unit := p.Unit
	if unit == "" {
		unit = "grams"
	}
	return tool.Result{
		"weight":               p.Weight,
		"unit":                 unit,
		"karat":                karat,
		"purity":               purity,
		"weight_grams":         round2(grams),
		"pure_gold_grams":      pure,
		"spot_price_per_gram":  round2(quote.USDPerGram),
		"spot_price_per_ounce": round2(quote.USDPerTroyOunce),
		"spot_source":          quote.Source,
		"melt_value":           melt,
		"melt_value_formatted": formatUSD(melt),
		"offers":               offers,
		"summary": fmt.Sprintf("%.2fg of %dk scrap holds %.2fg pure gold, melt %s.",
			grams, karat, pure, formatUSD(melt)),
	}, nil
}
