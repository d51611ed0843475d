// Package money holds the rounding primitive shared by every monetary
// computation in fairshare.
package money

import "math"

// Tolerance is the largest difference two amounts may have and still be
// considered equal. It absorbs the one-cent residual left by rounding a pair
// of ratio-split terms independently.
const Tolerance = 0.01

// Round2 rounds x to the nearest hundredth, half away from zero on the scaled
// value.
//
//	Round2(67.5)   -> 67.5
//	Round2(33.335) -> 33.34
//	Round2(-0.005) -> -0.01
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Equal reports whether a and b are within Tolerance of each other.
func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance+1e-9
}
