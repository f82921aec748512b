// Package money checks float inputs against the fixed-point columns they are
// stored in, so a value is rejected up front rather than rounded or refused
// by the database.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Amounts live in decimal(18,2), ratios in decimal(6,4).
const (
	AmountScale = 2
	RatioScale  = 4
)

// AmountLimit is the exclusive upper bound of a decimal(18,2) column.
var AmountLimit = decimal.New(1, 16)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// FitsScale reports whether v has at most scale digits after the decimal
// point in its shortest representation.
func FitsScale(v float64, scale int32) bool {
	if !finite(v) {
		return false
	}
	return decimal.NewFromFloat(v).Exponent() >= -scale
}

// AmountViolation returns why v cannot be stored as an amount, or "".
// Sign checks are left to the caller.
func AmountViolation(v float64) string {
	switch {
	case !finite(v):
		return "must be a finite number"
	case decimal.NewFromFloat(v).GreaterThanOrEqual(AmountLimit):
		return "must be less than " + AmountLimit.String()
	case !FitsScale(v, AmountScale):
		return fmt.Sprintf("must have at most %d decimal places", AmountScale)
	}
	return ""
}

// RatioViolation returns why v cannot be stored as a ratio, or "".
func RatioViolation(v float64) string {
	switch {
	case !finite(v):
		return "must be a finite number"
	case !FitsScale(v, RatioScale):
		return fmt.Sprintf("must have at most %d decimal places", RatioScale)
	}
	return ""
}
