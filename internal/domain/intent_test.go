package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validMarketIntent() *Intent {
	return &Intent{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Kind:     StrategyMarket,
		Quantity: decimal.NewFromFloat(0.5),
	}
}

func TestIntentValidate(t *testing.T) {
	t.Run("market ok", func(t *testing.T) {
		if err := validMarketIntent().Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		in := validMarketIntent()
		in.Quantity = decimal.Zero
		assertValidationError(t, in.Validate(), "quantity")
	})

	t.Run("blank symbol rejected", func(t *testing.T) {
		in := validMarketIntent()
		in.Symbol = "  "
		assertValidationError(t, in.Validate(), "symbol")
	})

	t.Run("bad side rejected", func(t *testing.T) {
		in := validMarketIntent()
		in.Side = "HOLD"
		assertValidationError(t, in.Validate(), "side")
	})

	t.Run("limit requires price", func(t *testing.T) {
		in := validMarketIntent()
		in.Kind = StrategyLimit
		assertValidationError(t, in.Validate(), "price")
	})

	t.Run("stop-limit requires stop price", func(t *testing.T) {
		in := validMarketIntent()
		in.Kind = StrategyStopLimit
		in.Price = decimal.NewFromInt(50000)
		assertValidationError(t, in.Validate(), "stopPrice")
	})

	t.Run("grid requires at least one level", func(t *testing.T) {
		in := validMarketIntent()
		in.Kind = StrategyGrid
		in.BasePrice = decimal.NewFromInt(50000)
		in.GridLevels = 0
		assertValidationError(t, in.Validate(), "gridLevels")
	})

	t.Run("twap requires at least one slice", func(t *testing.T) {
		in := validMarketIntent()
		in.Kind = StrategyTWAP
		in.TWAPSlices = 0
		assertValidationError(t, in.Validate(), "twapSlices")
	})
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Field != field {
		t.Errorf("Field = %q, want %q", ve.Field, field)
	}
}
