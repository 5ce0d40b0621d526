package retail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/settatam/shop-sub011/internal/tool"
)

// Negotiation guardrails: never sell below cost plus 15%, aim for a 40%
// gross margin.
const (
	floorMarkup  = 1.15
	targetMargin = 0.40
)

type NegotiationCoachTool struct{}

func NewNegotiationCoachTool() *NegotiationCoachTool {
	return &NegotiationCoachTool{}
}

func (t *NegotiationCoachTool) Name() string { return "negotiation_coach" }

func (t *NegotiationCoachTool) Description() string {
	return "Haggling math for a counter offer: margin at the asking price, the floor (cost plus 15%), the price that hits the 40% target margin, and when the customer has made an offer, a suggested counter at the midpoint clamped to the floor."
}

func (t *NegotiationCoachTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cost": map[string]any{
				"type":        "number",
				"description": "What the store paid for the item.",
			},
			"asking_price": map[string]any{
				"type":        "number",
				"description": "Current sticker price. Must be positive.",
			},
			"customer_offer": map[string]any{
				"type":        "number",
				"description": "What the customer offered, if they have made an offer.",
			},
		},
		"required":             []string{"cost", "asking_price"},
		"additionalProperties": false,
	}
}

func (t *NegotiationCoachTool) Execute(_ context.Context, params json.RawMessage, _ int64) (tool.Result, error) {
	var p struct {
		Cost          float64  `json:"cost"`
		AskingPrice   float64  `json:"asking_price"`
		CustomerOffer *float64 `json:"customer_offer"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return tool.Errorf("invalid parameters: %v", err), nil
		}
	}

	if p.Cost < 0 {
		return tool.Errorf("cost must not be negative, got %v", p.Cost), nil
	}
	if p.AskingPrice <= 0 {
		return tool.Errorf("asking_price must be positive, got %v", p.AskingPrice), nil
	}
	if p.CustomerOffer != nil && *p.CustomerOffer <= 0 {
		return tool.Errorf("customer_offer must be positive, got %v", *p.CustomerOffer), nil
	}

	floor := round2(p.Cost * floorMarkup)
	target := round2(p.Cost / (1 - targetMargin))

	res := tool.Result{
		"cost":                   round2(p.Cost),
		"asking_price":           round2(p.AskingPrice),
		"asking_margin_percent":  marginPercent(p.AskingPrice, p.Cost),
		"floor_price":            floor,
		"floor_price_formatted":  formatUSD(floor),
		"target_margin_percent":  targetMargin * 100,
		"target_price":           target,
		"target_price_formatted": formatUSD(target),
	}

	if p.CustomerOffer == nil {
		res["advice"] = fmt.Sprintf("Asking %s carries a %.1f%% margin. Hold near asking and do not go below the floor of %s.",
			formatUSD(p.AskingPrice), marginPercent(p.AskingPrice, p.Cost), formatUSD(floor))
		return res, nil
	}

	offer := *p.CustomerOffer
	counter := round2((offer + p.AskingPrice) / 2)
	if counter < floor {
		counter = floor
	}
	if counter > p.AskingPrice {
		counter = round2(p.AskingPrice)
	}

	res["customer_offer"] = round2(offer)
	res["offer_margin_percent"] = marginPercent(offer, p.Cost)
	res["suggested_counter"] = counter
	res["suggested_counter_formatted"] = formatUSD(counter)

	switch {
	case offer >= p.AskingPrice:
		res["advice"] = "The offer meets or beats your asking price. Take it."
	case offer >= target:
		res["advice"] = fmt.Sprintf("Their offer of %s already clears your 40%% target margin. Accept it, or counter at %s if they seem flexible.",
			formatUSD(offer), formatUSD(counter))
	case offer >= floor:
		res["advice"] = fmt.Sprintf("Counter at %s, the midpoint between their offer and your asking price. Your floor is %s.",
			formatUSD(counter), formatUSD(floor))
	default:
		res["advice"] = fmt.Sprintf("Their offer of %s is below your floor of %s. Counter at %s and walk away rather than sell below the floor.",
			formatUSD(offer), formatUSD(floor), formatUSD(counter))
	}
	return res, nil
}
