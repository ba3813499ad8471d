package domain

import "math"

// Round2 rounds a currency amount to 2 decimal places, half away from
// zero. Applied at computation time, not display time, so stored and
// displayed values always agree.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
