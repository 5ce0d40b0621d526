package llm

import "strings"

// modelPricing is USD per million tokens. Used only when the provider
// doesn't report cost itself (OpenRouter does; OpenAI and Anthropic don't).
type modelPricing struct {
	Prompt     float64
	Completion float64
}

var pricingTable = map[string]modelPricing{
	"gpt-4o":            {Prompt: 2.50, Completion: 10.00},
	"gpt-4o-mini":       {Prompt: 0.15, Completion: 0.60},
	"gpt-4.1":           {Prompt: 2.00, Completion: 8.00},
	"gpt-4.1-mini":      {Prompt: 0.40, Completion: 1.60},
	"gpt-4.1-nano":      {Prompt: 0.10, Completion: 0.40},
	"claude-opus-4":     {Prompt: 15.00, Completion: 75.00},
	"claude-sonnet-4":   {Prompt: 3.00, Completion: 15.00},
	"claude-3-7-sonnet": {Prompt: 3.00, Completion: 15.00},
	"claude-3-5-haiku":  {Prompt: 0.80, Completion: 4.00},
}

// EstimateCost prices a completion from the table. Unknown models cost zero
// (the usage row still records tokens).
func EstimateCost(model string, usage Usage) float64 {
	key := model
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		key = key[idx+1:]
	}

	pricing, ok := pricingTable[key]
	if !ok {
		// Date-suffixed releases (claude-sonnet-4-20250514) price as
		// their base model.
		best := ""
		for name := range pricingTable {
			if strings.HasPrefix(key, name) && len(name) > len(best) {
				best = name
			}
		}
		if best == "" {
			return 0
		}
		pricing = pricingTable[best]
	}

	return float64(usage.PromptTokens)*pricing.Prompt/1e6 +
		float64(usage.CompletionTokens)*pricing.Completion/1e6
}
