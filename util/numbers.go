package util

import (
	"fmt"
	"math"
	"strings"
)

const epsilon = 0.000001

// ChipUnit selects how stack and bet amounts are expressed.
type ChipUnit string

const (
	// UnitChips records whole tournament chips.
	UnitChips ChipUnit = "chips"
	// UnitBigBlinds records fractional big blinds (two decimals).
	UnitBigBlinds ChipUnit = "bb"
)

// ParseChipUnit accepts "chips" or "bb" (case-insensitive).
func ParseChipUnit(s string) (ChipUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chips", "chip":
		return UnitChips, nil
	case "bb", "bigblinds", "big-blinds":
		return UnitBigBlinds, nil
	}
	return UnitChips, fmt.Errorf("Invalid chip unit [%s]", s)
}

// Digits returns the number of decimals kept for the unit.
func (u ChipUnit) Digits() int {
	if u == UnitBigBlinds {
		return 2
	}
	return 0
}

// Normalize clamps an amount to zero or above and rounds it to the unit's precision.
// NaN and infinities become zero.
func (u ChipUnit) Normalize(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0
	}
	return RoundDecimal(amount, u.Digits())
}

func RoundDecimal(num float64, digits int) float64 {
	switch digits {
	case 0:
		return math.Round(num)
	case 2:
		return math.Round(num*100) / 100
	default:
		panic(fmt.Sprintf("RoundDecimal digits not supported: %d", digits))
	}
}

func NearlyEqual(a float64, b float64) bool {
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff < epsilon {
		return true
	}

	return false
}

// Greater is a > b where values within epsilon count as equal.
func Greater(a float64, b float64) bool {
	return a > b && !NearlyEqual(a, b)
}

func GreaterOrNearlyEqual(a float64, b float64) bool {
	if a > b || a == b {
		return true
	}

	return NearlyEqual(a, b)
}

// NonNegative returns v, or zero when v is negative or within epsilon of zero.
func NonNegative(v float64) float64 {
	if v < 0 || NearlyEqual(v, 0) {
		return 0
	}
	return v
}
