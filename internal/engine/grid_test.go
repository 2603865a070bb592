package engine

import (
	"context"
	"testing"

	"trading_go/internal/domain"

	"github.com/shopspring/decimal"
)

func TestBuildGridRequests_BuyLadder(t *testing.T) {
	reqs, err := BuildGridRequests("BTCUSDT", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromInt(50000), 5,
		decimal.NewFromFloat(2.0), decimal.NewFromFloat(0.01))
	if err != nil {
		t.Fatalf("BuildGridRequests failed: %v", err)
	}

	wantPrices := []string{"50000", "49000", "48000", "47000", "46000"}
	if len(reqs) != len(wantPrices) {
		t.Fatalf("got %d levels, want %d", len(reqs), len(wantPrices))
	}
	for i, req := range reqs {
		if !req.Price.Equal(decimal.RequireFromString(wantPrices[i])) {
			t.Errorf("level %d price = %v, want %s", i+1, req.Price, wantPrices[i])
		}
		if !req.Quantity.Equal(decimal.NewFromFloat(0.2)) {
			t.Errorf("level %d quantity = %v, want 0.2", i+1, req.Quantity)
		}
		if req.Type != domain.OrderTypeLimit || req.TimeInForce != domain.TimeInForceGTC {
			t.Errorf("level %d = %s/%s, want LIMIT/GTC", i+1, req.Type, req.TimeInForce)
		}
	}
}

func TestBuildGridRequests_SellLadderAscends(t *testing.T) {
	reqs, err := BuildGridRequests("ETHUSDT", domain.SideSell,
		decimal.NewFromInt(3), decimal.NewFromInt(3000), 4,
		decimal.NewFromFloat(1.5), decimal.NewFromFloat(0.01))
	if err != nil {
		t.Fatalf("BuildGridRequests failed: %v", err)
	}

	for i := 1; i < len(reqs); i++ {
		if reqs[i].Price.LessThan(reqs[i-1].Price) {
			t.Errorf("sell ladder not ascending: level %d %v < level %d %v",
				i+1, reqs[i].Price, i, reqs[i-1].Price)
		}
	}
}

func TestBuildGridRequests_PricesAreTickMultiples(t *testing.T) {
	tick := decimal.NewFromFloat(0.5)
	reqs, err := BuildGridRequests("BTCUSDT", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromFloat(50123.77), 6,
		decimal.NewFromFloat(0.7), tick)
	if err != nil {
		t.Fatalf("BuildGridRequests failed: %v", err)
	}

	for i, req := range reqs {
		if !req.Price.Mod(tick).IsZero() {
			t.Errorf("level %d price %v is not a multiple of tick %v", i+1, req.Price, tick)
		}
	}
}

func TestBuildGridRequests_InvalidTick(t *testing.T) {
	_, err := BuildGridRequests("BTCUSDT", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromInt(50000), 3,
		decimal.NewFromFloat(2.0), decimal.Zero)
	if err == nil {
		t.Fatal("expected error for zero tick size")
	}
}

func TestPlaceGrid(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	result, err := e.PlaceGrid(context.Background(), "btc", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromInt(50000), 5, decimal.NewFromFloat(2.0))
	if err != nil {
		t.Fatalf("PlaceGrid failed: %v", err)
	}

	if !result.Terminal {
		t.Error("grid result must be terminal after all levels were attempted")
	}
	if len(result.Results) != 5 {
		t.Fatalf("got %d placed levels, want 5", len(result.Results))
	}
	if e.Ledger().Size() != 5 {
		t.Errorf("ledger has %d entries, want 5", e.Ledger().Size())
	}
}

func TestPlaceGrid_SkipsFailedLevel(t *testing.T) {
	fake := &fakeExchange{failOn: map[int]error{
		3: &domain.ExchangeError{Code: -2010, Message: "Order would immediately trigger"},
	}}
	e := newTestEngine(fake)

	result, err := e.PlaceGrid(context.Background(), "btc", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromInt(50000), 5, decimal.NewFromFloat(2.0))
	if err != nil {
		t.Fatalf("a level failure must not fail the run: %v", err)
	}

	if len(fake.requests) != 5 {
		t.Errorf("all 5 levels should be attempted, got %d", len(fake.requests))
	}
	if len(result.Results) != 4 {
		t.Errorf("got %d placed levels, want 4", len(result.Results))
	}
	if e.Ledger().Size() != 4 {
		t.Errorf("ledger has %d entries, want 4", e.Ledger().Size())
	}
	if !result.Terminal {
		t.Error("grid result must be terminal even with skipped levels")
	}
}

func TestPlaceGrid_ValidationBeforeSubmission(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceGrid(context.Background(), "btc", domain.SideBuy,
		decimal.NewFromInt(1), decimal.NewFromInt(50000), 0, decimal.NewFromFloat(2.0))
	if err == nil {
		t.Fatal("expected validation error for zero levels")
	}
	if len(fake.requests) != 0 {
		t.Error("invalid grid must not submit anything")
	}
}
