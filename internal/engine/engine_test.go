package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading_go/internal/domain"
	"trading_go/internal/infra"
	"trading_go/internal/ledger"

	"github.com/shopspring/decimal"
)

// fakeExchange is a scriptable ExchangeClient for engine tests. failOn maps
// a 1-based CreateOrder call number to the error it should return.
type fakeExchange struct {
	requests []domain.OrderRequest
	failOn   map[int]error
	nextID   int64

	canceled []int64
	open     []*domain.OrderResult
}

func (f *fakeExchange) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	f.requests = append(f.requests, req)
	call := len(f.requests)
	if err, ok := f.failOn[call]; ok {
		return nil, err
	}

	f.nextID++
	return &domain.OrderResult{
		OrderID:  f.nextID,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Type:     req.Type,
		Status:   domain.OrderStatusNew,
		Price:    req.Price,
		Quantity: req.Quantity,
	}, nil
}

func (f *fakeExchange) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	f.canceled = append(f.canceled, orderID)
	return nil
}

func (f *fakeExchange) GetOrder(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	return &domain.OrderResult{OrderID: orderID, Symbol: symbol, Status: domain.OrderStatusFilled}, nil
}

func (f *fakeExchange) ListOpenOrders(ctx context.Context, symbol string) ([]*domain.OrderResult, error) {
	return f.open, nil
}

func (f *fakeExchange) GetTicker(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return decimal.NewFromInt(50000), nil
}

func (f *fakeExchange) GetAccount(ctx context.Context) (*domain.AccountBalance, error) {
	return &domain.AccountBalance{}, nil
}

func TestFakeExchange_ImplementsInterface(t *testing.T) {
	var _ domain.ExchangeClient = (*fakeExchange)(nil)
}

// fixedTicks always reports the same tick size.
type fixedTicks struct {
	tick decimal.Decimal
}

func (s fixedTicks) TickSize(string) decimal.Decimal { return s.tick }

func newTestEngine(fake *fakeExchange) *Engine {
	e := NewEngine(fake, ledger.NewLedger(), nil, decimal.NewFromFloat(0.01), &infra.Metrics{})
	e.wait = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func TestPlaceMarket(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	result, err := e.PlaceMarket(context.Background(), "btc", domain.SideBuy, decimal.NewFromFloat(0.5))
	if err != nil {
		t.Fatalf("PlaceMarket failed: %v", err)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(fake.requests))
	}
	req := fake.requests[0]
	if req.Symbol != "BTCUSDT" {
		t.Errorf("symbol not normalized: %s", req.Symbol)
	}
	if req.Type != domain.OrderTypeMarket {
		t.Errorf("Type = %s, want MARKET", req.Type)
	}

	entry, err := e.Ledger().FindByOrderID(result.OrderID)
	if err != nil {
		t.Fatalf("result not recorded: %v", err)
	}
	if entry.Strategy != domain.StrategyMarket || entry.Index != 0 {
		t.Errorf("entry metadata = %s/%d, want MARKET/0", entry.Strategy, entry.Index)
	}
}

func TestPlaceMarket_RejectsZeroQuantity(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceMarket(context.Background(), "btc", domain.SideBuy, decimal.Zero)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(fake.requests) != 0 {
		t.Error("validation errors must never reach the network")
	}
}

func TestPlaceLimit_RequiresPrice(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceLimit(context.Background(), "eth", domain.SideSell, decimal.NewFromInt(1), decimal.Zero, "")

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "price" {
		t.Errorf("Field = %s, want price", ve.Field)
	}
}

func TestPlaceLimit_DefaultsTimeInForce(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceLimit(context.Background(), "eth", domain.SideBuy, decimal.NewFromInt(1), decimal.NewFromInt(3000), "")
	if err != nil {
		t.Fatalf("PlaceLimit failed: %v", err)
	}
	if fake.requests[0].TimeInForce != domain.TimeInForceGTC {
		t.Errorf("TimeInForce = %s, want GTC", fake.requests[0].TimeInForce)
	}
}

func TestPlaceStopLimit(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceStopLimit(context.Background(), "btc", domain.SideSell,
		decimal.NewFromFloat(0.1), decimal.NewFromInt(47900), decimal.NewFromInt(48000), "")
	if err != nil {
		t.Fatalf("PlaceStopLimit failed: %v", err)
	}

	req := fake.requests[0]
	if req.Type != domain.OrderTypeStopLimit {
		t.Errorf("Type = %s, want STOP_LIMIT", req.Type)
	}
	if !req.StopPrice.Equal(decimal.NewFromInt(48000)) {
		t.Errorf("StopPrice = %v, want 48000", req.StopPrice)
	}
}

func TestPlaceOCO_DefaultsStopLimitPrice(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceOCO(context.Background(), "btc", domain.SideSell,
		decimal.NewFromFloat(0.2), decimal.NewFromInt(52000), decimal.NewFromInt(48000), decimal.Zero)
	if err != nil {
		t.Fatalf("PlaceOCO failed: %v", err)
	}

	req := fake.requests[0]
	if !req.StopLimitPrice.Equal(req.StopPrice) {
		t.Errorf("StopLimitPrice = %v, want StopPrice %v", req.StopLimitPrice, req.StopPrice)
	}
}

func TestPlaceOCO_ExplicitStopLimitPrice(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	_, err := e.PlaceOCO(context.Background(), "btc", domain.SideSell,
		decimal.NewFromFloat(0.2), decimal.NewFromInt(52000), decimal.NewFromInt(48000), decimal.NewFromInt(47950))
	if err != nil {
		t.Fatalf("PlaceOCO failed: %v", err)
	}

	if !fake.requests[0].StopLimitPrice.Equal(decimal.NewFromInt(47950)) {
		t.Errorf("StopLimitPrice = %v, want 47950", fake.requests[0].StopLimitPrice)
	}
}

func TestSingleOrder_ExchangeErrorLeavesNoPartialState(t *testing.T) {
	fake := &fakeExchange{failOn: map[int]error{
		1: &domain.ExchangeError{Code: -2019, Message: "Margin is insufficient"},
	}}
	e := newTestEngine(fake)

	_, err := e.PlaceMarket(context.Background(), "btc", domain.SideBuy, decimal.NewFromFloat(10))

	var exErr *domain.ExchangeError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected *ExchangeError, got %v", err)
	}
	if e.Ledger().Size() != 0 {
		t.Errorf("ledger should be empty after a failed single order, has %d", e.Ledger().Size())
	}
}

func TestCancelOrder_NormalizesSymbol(t *testing.T) {
	fake := &fakeExchange{}
	e := newTestEngine(fake)

	if err := e.CancelOrder(context.Background(), "btc", 77); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if len(fake.canceled) != 1 || fake.canceled[0] != 77 {
		t.Errorf("canceled = %v, want [77]", fake.canceled)
	}
}

func TestTickSizeFor_FallsBackToDefault(t *testing.T) {
	fake := &fakeExchange{}

	e := NewEngine(fake, ledger.NewLedger(), fixedTicks{tick: decimal.Zero}, decimal.NewFromFloat(0.01), nil)
	if got := e.tickSizeFor("BTCUSDT"); !got.Equal(decimal.NewFromFloat(0.01)) {
		t.Errorf("tickSizeFor = %v, want default 0.01", got)
	}

	e = NewEngine(fake, ledger.NewLedger(), fixedTicks{tick: decimal.NewFromFloat(0.5)}, decimal.NewFromFloat(0.01), nil)
	if got := e.tickSizeFor("BTCUSDT"); !got.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("tickSizeFor = %v, want source 0.5", got)
	}
}
