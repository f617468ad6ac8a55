package exchange

import "math"

// Convert applies the reference rates to an amount, rounding each result
// to cents.
func Convert(amount float64, rates Rates) (cadAmount, usdAmount float64) {
	return round2(amount * rates.CAD), round2(amount * rates.USD)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
