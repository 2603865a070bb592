// Package engine turns high-level trading intents into exchange order
// submissions: single orders (market, limit, stop-limit, OCO) and compound
// strategies (grid, TWAP) decomposed into paced sequences of atomic orders.
package engine

import (
	"context"
	"log/slog"
	"time"

	"trading_go/internal/domain"
	"trading_go/internal/infra"
	"trading_go/internal/ledger"

	"github.com/shopspring/decimal"
)

// TickSource provides per-symbol tick sizes. A zero return means unknown,
// in which case the engine falls back to its configured default.
type TickSource interface {
	TickSize(symbol string) decimal.Decimal
}

// Engine is the strategy execution engine. It owns exactly one ledger and
// drives all submissions sequentially on the caller's goroutine.
type Engine struct {
	client      domain.ExchangeClient
	book        *ledger.Ledger
	ticks       TickSource
	defaultTick decimal.Decimal
	metrics     *infra.Metrics
	logger      *slog.Logger

	// Injection points for tests: wall clock and cancellable wait.
	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an engine around an exchange client and a fresh ledger
// view. ticks may be nil; defaultTick is used whenever the tick size of a
// symbol is unknown.
func NewEngine(client domain.ExchangeClient, book *ledger.Ledger, ticks TickSource, defaultTick decimal.Decimal, metrics *infra.Metrics) *Engine {
	return &Engine{
		client:      client,
		book:        book,
		ticks:       ticks,
		defaultTick: defaultTick,
		metrics:     metrics,
		logger:      slog.Default().With("module", "engine"),
		now:         time.Now,
		wait:        waitWithContext,
	}
}

// Ledger exposes the engine's order record for reporting.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.book
}

// PlaceMarket submits a single market order.
func (e *Engine) PlaceMarket(ctx context.Context, symbol, side string, quantity decimal.Decimal) (*domain.OrderResult, error) {
	in := &domain.Intent{
		Symbol:   symbol,
		Side:     side,
		Kind:     domain.StrategyMarket,
		Quantity: quantity,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := domain.OrderRequest{
		Symbol:   domain.NormalizeSymbol(in.Symbol),
		Side:     in.Side,
		Type:     domain.OrderTypeMarket,
		Quantity: in.Quantity,
	}
	return e.submitAndRecord(ctx, req, domain.StrategyMarket, 0)
}

// PlaceLimit submits a single limit order.
func (e *Engine) PlaceLimit(ctx context.Context, symbol, side string, quantity, price decimal.Decimal, timeInForce string) (*domain.OrderResult, error) {
	in := &domain.Intent{
		Symbol:      symbol,
		Side:        side,
		Kind:        domain.StrategyLimit,
		Quantity:    quantity,
		Price:       price,
		TimeInForce: timeInForce,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := domain.OrderRequest{
		Symbol:      domain.NormalizeSymbol(in.Symbol),
		Side:        in.Side,
		Type:        domain.OrderTypeLimit,
		Quantity:    in.Quantity,
		Price:       in.Price,
		TimeInForce: tifOrGTC(in.TimeInForce),
	}
	return e.submitAndRecord(ctx, req, domain.StrategyLimit, 0)
}

// PlaceStopLimit submits a single stop-limit order: a limit order at price
// that arms once stopPrice triggers.
func (e *Engine) PlaceStopLimit(ctx context.Context, symbol, side string, quantity, price, stopPrice decimal.Decimal, timeInForce string) (*domain.OrderResult, error) {
	in := &domain.Intent{
		Symbol:      symbol,
		Side:        side,
		Kind:        domain.StrategyStopLimit,
		Quantity:    quantity,
		Price:       price,
		StopPrice:   stopPrice,
		TimeInForce: timeInForce,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := domain.OrderRequest{
		Symbol:      domain.NormalizeSymbol(in.Symbol),
		Side:        in.Side,
		Type:        domain.OrderTypeStopLimit,
		Quantity:    in.Quantity,
		Price:       in.Price,
		StopPrice:   in.StopPrice,
		TimeInForce: tifOrGTC(in.TimeInForce),
	}
	return e.submitAndRecord(ctx, req, domain.StrategyStopLimit, 0)
}

// PlaceOCO submits one combined request carrying the profit-target limit leg
// and the stop leg; the exchange manages the one-cancels-other pairing
// atomically server-side. stopLimitPrice defaults to stopPrice when zero.
func (e *Engine) PlaceOCO(ctx context.Context, symbol, side string, quantity, price, stopPrice, stopLimitPrice decimal.Decimal) (*domain.OrderResult, error) {
	in := &domain.Intent{
		Symbol:         symbol,
		Side:           side,
		Kind:           domain.StrategyOCO,
		Quantity:       quantity,
		Price:          price,
		StopPrice:      stopPrice,
		StopLimitPrice: stopLimitPrice,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if in.StopLimitPrice.IsZero() {
		in.StopLimitPrice = in.StopPrice
	}

	req := domain.OrderRequest{
		Symbol:         domain.NormalizeSymbol(in.Symbol),
		Side:           in.Side,
		Type:           domain.OrderTypeLimit,
		Quantity:       in.Quantity,
		Price:          in.Price,
		StopPrice:      in.StopPrice,
		StopLimitPrice: in.StopLimitPrice,
		TimeInForce:    domain.TimeInForceGTC,
	}
	return e.submitAndRecord(ctx, req, domain.StrategyOCO, 0)
}

// CancelOrder cancels an open order on the exchange. The ledger entry stays
// untouched as a historical record.
func (e *Engine) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	err := e.client.CancelOrder(ctx, domain.NormalizeSymbol(symbol), orderID)
	if err != nil {
		e.logger.Error("Cancel failed", slog.Int64("order_id", orderID), slog.Any("error", err))
		return err
	}
	e.logger.Info("Order canceled", slog.Int64("order_id", orderID))
	return nil
}

// GetOrderStatus re-queries the exchange for the current state of an order.
func (e *Engine) GetOrderStatus(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	return e.client.GetOrder(ctx, domain.NormalizeSymbol(symbol), orderID)
}

// ListOpenOrders lists open orders, all symbols when symbol is empty.
func (e *Engine) ListOpenOrders(ctx context.Context, symbol string) ([]*domain.OrderResult, error) {
	if symbol != "" {
		symbol = domain.NormalizeSymbol(symbol)
	}
	return e.client.ListOpenOrders(ctx, symbol)
}

// submitAndRecord performs one atomic submission and, on success, appends
// the result to the ledger. No retries: the caller decides what a failure
// means for the surrounding strategy.
func (e *Engine) submitAndRecord(ctx context.Context, req domain.OrderRequest, kind domain.StrategyKind, index int) (*domain.OrderResult, error) {
	result, err := e.client.CreateOrder(ctx, req)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordOrderFailed()
		}
		e.logger.Error("Order submission failed",
			slog.String("strategy", string(kind)),
			slog.String("symbol", req.Symbol),
			slog.Int("index", index),
			slog.Any("error", err))
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordOrderSubmitted()
	}
	e.book.Record(&ledger.Entry{
		Result:      *result,
		Strategy:    kind,
		Index:       index,
		SubmittedAt: e.now(),
	})

	e.logger.Info("Order recorded",
		slog.String("strategy", string(kind)),
		slog.Int64("order_id", result.OrderID),
		slog.String("symbol", result.Symbol),
		slog.String("status", result.Status))
	return result, nil
}

// tickSizeFor resolves the tick size used to quantize computed prices.
func (e *Engine) tickSizeFor(symbol string) decimal.Decimal {
	if e.ticks != nil {
		if t := e.ticks.TickSize(symbol); t.IsPositive() {
			return t
		}
	}
	return e.defaultTick
}

// waitWithContext blocks for d or until ctx is canceled, whichever comes
// first. Returns the context error on cancellation.
func waitWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func tifOrGTC(tif string) string {
	if tif == "" {
		return domain.TimeInForceGTC
	}
	return tif
}
