package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/settatam/shop-sub011/internal/store"
)

// Pricing guardrails shared with the negotiation tooling: floor at cost plus
// 15%, aim for a 40% gross margin.
const (
	pricingFloorMarkup  = 1.15
	pricingTargetMargin = 0.40
)

// subject is the item a suggestion describes.
type subject struct {
	Type        string
	ID          int64
	StoreName   string
	Name        string
	SKU         string
	Category    string
	MetalType   string
	WeightGrams float64
	Cost        float64
	Price       float64
	Notes       string
}

func productSubject(storeName string, p store.Product, notes string) subject {
	return subject{
		Type:        "product",
		ID:          p.ID,
		StoreName:   storeName,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		MetalType:   p.MetalType,
		WeightGrams: p.WeightGrams,
		Cost:        p.Cost,
		Price:       p.Price,
		Notes:       notes,
	}
}

func freeSubject(storeName, notes string) subject {
	return subject{
		Type:      "store",
		StoreName: storeName,
		Notes:     notes,
	}
}

func (s subject) describe() string {
	var b strings.Builder
	if s.Name != "" {
		fmt.Fprintf(&b, "Item: %s\n", s.Name)
	}
	if s.SKU != "" {
		fmt.Fprintf(&b, "SKU: %s\n", s.SKU)
	}
	if s.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", s.Category)
	}
	if s.MetalType != "" {
		fmt.Fprintf(&b, "Metal: %s", s.MetalType)
		if s.WeightGrams > 0 {
			fmt.Fprintf(&b, ", %.2fg", s.WeightGrams)
		}
		b.WriteString("\n")
	}
	if s.Cost > 0 || s.Price > 0 {
		fmt.Fprintf(&b, "Cost: $%.2f, current price: $%.2f\n", s.Cost, s.Price)
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", s.Notes)
	}
	if b.Len() == 0 {
		b.WriteString("No item details provided.\n")
	}
	return b.String()
}

type prompt struct {
	System string
	User   string
}

func buildPrompt(kind string, subj subject) prompt {
	system := fmt.Sprintf(
		"You write for %s, an independent pawn and jewelry store. Respond with a single JSON object and nothing else: no prose, no markdown fences.",
		subj.StoreName)

	var user string
	switch kind {
	case KindDescription:
		user = subj.describe() + `
Write a product listing for this item.
Respond as JSON: {"description": string (2-3 sentences, warm but factual), "highlights": [up to 4 short selling points]}`
	case KindPricing:
		user = subj.describe() + `
Recommend retail pricing for this item. The store never sells below cost plus 15% and targets a 40% gross margin.
Respond as JSON: {"suggested_price": number, "floor_price": number, "reasoning": string (one sentence)}`
	case KindCategory:
		user = subj.describe() + `
Pick the best inventory category for this item (examples: rings, necklaces, bracelets, earrings, watches, coins, scrap, electronics, general).
Respond as JSON: {"category": string, "confidence": number between 0 and 1}`
	case KindTemplate:
		user = subj.describe() + `
Write a short marketing blast the store can send to its customer list about this item or promotion.
Respond as JSON: {"subject": string (under 60 characters), "body": string (2-4 sentences)}`
	}

	return prompt{System: system, User: user}
}

// primaryKey is the field a reply must carry to count as usable.
func primaryKey(kind string) string {
	switch kind {
	case KindDescription:
		return "description"
	case KindPricing:
		return "suggested_price"
	case KindCategory:
		return "category"
	default:
		return "body"
	}
}

// fallbackFields builds the deterministic stand-in used when the model is
// unavailable or replies with something unparseable.
func fallbackFields(kind string, subj subject) map[string]any {
	name := subj.Name
	if name == "" {
		name = "this piece"
	}

	switch kind {
	case KindDescription:
		highlights := []string{"inspected by our jewelers", "ready for same-day pickup"}
		if subj.MetalType != "" {
			highlights = append([]string{strings.ReplaceAll(subj.MetalType, "_", " ")}, highlights...)
		}
		return map[string]any{
			"description": fmt.Sprintf("%s in good pre-owned condition, cleaned and inspected by our jewelers. Stop by %s to see it in person.", name, subj.StoreName),
			"highlights":  highlights,
		}
	case KindPricing:
		suggested := subj.Price
		floor := 0.0
		reasoning := "Kept the current price; no cost on file to derive margins from."
		if subj.Cost > 0 {
			suggested = roundCents(subj.Cost / (1 - pricingTargetMargin))
			floor = roundCents(subj.Cost * pricingFloorMarkup)
			reasoning = "Cost-based: 40% target margin over cost, floor at cost plus 15%."
		}
		return map[string]any{
			"suggested_price": suggested,
			"floor_price":     floor,
			"reasoning":       reasoning,
		}
	case KindCategory:
		category := "general"
		switch {
		case subj.Category != "":
			category = subj.Category
		case subj.MetalType != "":
			category = "jewelry"
		case strings.Contains(strings.ToLower(subj.Name), "watch"):
			category = "watches"
		}
		return map[string]any{
			"category":   category,
			"confidence": 0.3,
		}
	default:
		return map[string]any{
			"subject": fmt.Sprintf("New at %s", subj.StoreName),
			"body":    fmt.Sprintf("Fresh arrivals just hit the case at %s, including %s. Come see them before they are gone.", subj.StoreName, name),
		}
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
