package money

import "math"

// All monetary amounts in the system are int64 cents. Rounding is
// round-half-up, applied whenever a fractional computation (percentage
// discount, tax) produces sub-cent values.

// RoundHalfUp rounds a fractional cent amount to whole cents.
func RoundHalfUp(cents float64) int64 {
	return int64(math.Floor(cents + 0.5))
}

// FromUnits converts an amount in currency units (e.g. 53.00) to cents.
func FromUnits(units float64) int64 {
	return RoundHalfUp(units * 100)
}

// ToUnits converts cents to currency units.
func ToUnits(cents int64) float64 {
	return float64(cents) / 100
}

// Percent computes pct% of the given amount, rounded half-up.
func Percent(cents int64, pct float64) int64 {
	return RoundHalfUp(float64(cents) * pct / 100)
}
