package retail

import (
	"math"
	"strconv"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// formatUSD renders a dollar amount with comma grouping: 1234.5 -> "$1,234.50".
func formatUSD(v float64) string {
	s := strconv.FormatFloat(math.Abs(round2(v)), 'f', 2, 64)
	dot := len(s) - 3
	out := s[dot:]
	intPart := s[:dot]
	for len(intPart) > 3 {
		out = "," + intPart[len(intPart)-3:] + out
		intPart = intPart[:len(intPart)-3]
	}
	out = intPart + out
	if v < 0 {
		return "-$" + out
	}
	return "$" + out
}

// marginPercent is the gross margin of price over cost, as a percentage of
// price. Zero price yields zero rather than dividing by it.
func marginPercent(price, cost float64) float64 {
	if price == 0 {
		return 0
	}
	return round1((price - cost) / price * 100)
}
