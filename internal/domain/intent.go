package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Intent is the caller's declarative description of a desired trade or
// strategy. It is built per call, validated, decomposed into one or more
// OrderRequests, and discarded.
type Intent struct {
	Symbol string
	Side   string
	Kind   StrategyKind

	Quantity       decimal.Decimal
	Price          decimal.Decimal
	StopPrice      decimal.Decimal
	StopLimitPrice decimal.Decimal
	TimeInForce    string

	// Grid parameters
	BasePrice   decimal.Decimal
	GridLevels  int
	GridPercent decimal.Decimal

	// TWAP parameters
	TWAPSlices   int
	TWAPInterval time.Duration
}

// Validate checks the kind-specific parameter invariants. All failures are
// reported as *ValidationError before anything touches the network.
func (in *Intent) Validate() error {
	if strings.TrimSpace(in.Symbol) == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if in.Side != SideBuy && in.Side != SideSell {
		return &ValidationError{Field: "side", Reason: "must be BUY or SELL"}
	}
	if !in.Quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	switch in.Kind {
	case StrategyMarket:
		// quantity alone suffices

	case StrategyLimit:
		if !in.Price.IsPositive() {
			return &ValidationError{Field: "price", Reason: "must be positive"}
		}

	case StrategyStopLimit:
		if !in.Price.IsPositive() {
			return &ValidationError{Field: "price", Reason: "must be positive"}
		}
		if !in.StopPrice.IsPositive() {
			return &ValidationError{Field: "stopPrice", Reason: "must be positive"}
		}

	case StrategyOCO:
		if !in.Price.IsPositive() {
			return &ValidationError{Field: "price", Reason: "must be positive"}
		}
		if !in.StopPrice.IsPositive() {
			return &ValidationError{Field: "stopPrice", Reason: "must be positive"}
		}

	case StrategyGrid:
		if !in.BasePrice.IsPositive() {
			return &ValidationError{Field: "basePrice", Reason: "must be positive"}
		}
		if in.GridLevels < 1 {
			return &ValidationError{Field: "gridLevels", Reason: "must be at least 1"}
		}
		if in.GridPercent.IsNegative() {
			return &ValidationError{Field: "gridPercentage", Reason: "must not be negative"}
		}

	case StrategyTWAP:
		if in.TWAPSlices < 1 {
			return &ValidationError{Field: "twapSlices", Reason: "must be at least 1"}
		}
		if in.TWAPInterval < 0 {
			return &ValidationError{Field: "twapInterval", Reason: "must not be negative"}
		}

	default:
		return &ValidationError{Field: "strategyKind", Reason: "unknown strategy " + string(in.Kind)}
	}

	return nil
}
