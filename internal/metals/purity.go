package metals

import "fmt"

// Weight conversions (precious metals trade in troy units).
const (
	GramsPerTroyOunce   = 31.1034768
	GramsPerPennyweight = 1.55517384
)

// purityRatios maps a product metal_type to its fine-metal fraction.
var purityRatios = map[string]float64{
	"gold_24k":        0.999,
	"gold_22k":        0.916,
	"gold_18k":        0.750,
	"gold_14k":        0.583,
	"gold_10k":        0.417,
	"sterling_silver": 0.925,
	"fine_silver":     0.999,
	"platinum":        0.950,
	"palladium":       0.950,
}

// baseMetals maps a metal_type to the metal its spot price is quoted under.
var baseMetals = map[string]string{
	"gold_24k":        "gold",
	"gold_22k":        "gold",
	"gold_18k":        "gold",
	"gold_14k":        "gold",
	"gold_10k":        "gold",
	"sterling_silver": "silver",
	"fine_silver":     "silver",
	"platinum":        "platinum",
	"palladium":       "palladium",
}

var karatRatios = map[int]float64{
	24: 0.999,
	22: 0.916,
	18: 0.750,
	14: 0.583,
	10: 0.417,
}

// PurityRatio returns the fine-metal fraction for a metal_type.
func PurityRatio(metalType string) (float64, bool) {
	r, ok := purityRatios[metalType]
	return r, ok
}

// BaseMetal returns the spot-quoted metal for a metal_type.
func BaseMetal(metalType string) (string, bool) {
	m, ok := baseMetals[metalType]
	return m, ok
}

// KaratPurity returns the fine-gold fraction for a karat grade.
func KaratPurity(karat int) (float64, bool) {
	r, ok := karatRatios[karat]
	return r, ok
}

// MetalTypes lists the recognized metal_type values, for tool schemas.
func MetalTypes() []string {
	return []string{
		"gold_24k", "gold_22k", "gold_18k", "gold_14k", "gold_10k",
		"sterling_silver", "fine_silver", "platinum", "palladium",
	}
}

// ToGrams converts a weight in the given unit (grams | ounces | dwt) to
// grams. Ounces are troy ounces.
func ToGrams(weight float64, unit string) (float64, error) {
	switch unit {
	case "", "grams":
		return weight, nil
	case "ounces":
		return weight * GramsPerTroyOunce, nil
	case "dwt":
		return weight * GramsPerPennyweight, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnit, unit)
	}
}
