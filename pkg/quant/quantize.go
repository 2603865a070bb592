// Package quant holds the pure numeric helpers shared by order construction:
// tick-size quantization and equal quantity splitting. Everything here uses
// exact decimal arithmetic so repeated grid-level math never drifts.
package quant

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidTickSize is returned when a tick size is zero or negative.
var ErrInvalidTickSize = errors.New("tick size must be positive")

// QuantizePrice truncates price down to the nearest multiple of tickSize.
// It never rounds up, so a quantized grid price can never violate the
// exchange's tick constraint. Idempotent: quantizing a quantized price is a
// no-op.
func QuantizePrice(price, tickSize decimal.Decimal) (decimal.Decimal, error) {
	if tickSize.Sign() <= 0 {
		return decimal.Zero, ErrInvalidTickSize
	}
	// QuoRem is exact; Div rounds the quotient and could step past the input.
	steps, _ := price.QuoRem(tickSize, 0)
	return steps.Mul(tickSize), nil
}

// SplitQuantity divides total into n equal parts, assigning the division
// remainder to the final part so the parts always sum exactly to total.
// Parts are truncated to eight decimal places, the finest quantity unit the
// exchange accepts.
func SplitQuantity(total decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		return nil
	}

	per := total.Div(decimal.NewFromInt(int64(n))).Truncate(8)

	parts := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		parts[i] = per
	}
	// Last part absorbs the remainder.
	parts[n-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	return parts
}
