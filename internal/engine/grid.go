package engine

import (
	"context"
	"log/slog"

	"trading_go/internal/domain"
	"trading_go/pkg/quant"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// BuildGridRequests decomposes a grid intent into one limit order per level.
// BUY ladders step down from basePrice, SELL ladders step up:
//
//	price(i) = basePrice * (1 -/+ i*percent/100), i = 0..levels-1
//
// Every computed price is quantized down to tickSize. Quantities are an
// equal split of the total with the remainder assigned to the last level.
func BuildGridRequests(symbol, side string, quantity, basePrice decimal.Decimal, levels int, percent, tickSize decimal.Decimal) ([]domain.OrderRequest, error) {
	quantities := quant.SplitQuantity(quantity, levels)
	step := percent.Div(oneHundred)

	reqs := make([]domain.OrderRequest, 0, levels)
	for i := 0; i < levels; i++ {
		offset := step.Mul(decimal.NewFromInt(int64(i)))

		var price decimal.Decimal
		if side == domain.SideBuy {
			price = basePrice.Mul(decimal.NewFromInt(1).Sub(offset))
		} else {
			price = basePrice.Mul(decimal.NewFromInt(1).Add(offset))
		}

		price, err := quant.QuantizePrice(price, tickSize)
		if err != nil {
			return nil, err
		}

		reqs = append(reqs, domain.OrderRequest{
			Symbol:      symbol,
			Side:        side,
			Type:        domain.OrderTypeLimit,
			Quantity:    quantities[i],
			Price:       price,
			TimeInForce: domain.TimeInForceGTC,
		})
	}
	return reqs, nil
}

// PlaceGrid places a ladder of resting limit orders. Execution is sequential
// and best-effort: a failed level is logged and skipped, the remaining
// levels are still attempted. The returned result holds every level that
// succeeded and is always terminal once all levels have been tried.
func (e *Engine) PlaceGrid(ctx context.Context, symbol, side string, quantity, basePrice decimal.Decimal, levels int, percent decimal.Decimal) (*domain.StrategyExecutionResult, error) {
	in := &domain.Intent{
		Symbol:      symbol,
		Side:        side,
		Kind:        domain.StrategyGrid,
		Quantity:    quantity,
		BasePrice:   basePrice,
		GridLevels:  levels,
		GridPercent: percent,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	canonical := domain.NormalizeSymbol(in.Symbol)
	tick := e.tickSizeFor(canonical)

	reqs, err := BuildGridRequests(canonical, in.Side, in.Quantity, in.BasePrice, in.GridLevels, in.GridPercent, tick)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Placing grid",
		slog.String("symbol", canonical),
		slog.String("side", in.Side),
		slog.Int("levels", in.GridLevels),
		slog.String("base_price", in.BasePrice.String()))

	result := &domain.StrategyExecutionResult{Kind: domain.StrategyGrid}
	for i, req := range reqs {
		level := i + 1

		res, err := e.submitAndRecord(ctx, req, domain.StrategyGrid, level)
		if err != nil {
			// Best-effort: grid levels are independent resting orders, one
			// failing does not invalidate the rest.
			if e.metrics != nil {
				e.metrics.RecordGridLevelSkipped()
			}
			e.logger.Warn("Grid level skipped",
				slog.Int("level", level),
				slog.String("price", req.Price.String()),
				slog.Any("error", err))
			continue
		}

		if e.metrics != nil {
			e.metrics.RecordGridLevelPlaced()
		}
		result.Results = append(result.Results, *res)
	}

	// Every level was attempted, success or not.
	result.Terminal = true

	e.logger.Info("Grid placement finished",
		slog.String("symbol", canonical),
		slog.Int("placed", len(result.Results)),
		slog.Int("attempted", len(reqs)))
	return result, nil
}
