package engine

import (
	"context"
	"log/slog"
	"time"

	"trading_go/internal/domain"
	"trading_go/pkg/quant"

	"github.com/shopspring/decimal"
)

// BuildTWAPRequests decomposes a TWAP intent into equal market order slices.
// The quantity remainder goes to the final slice so the slices sum exactly
// to the requested total.
func BuildTWAPRequests(symbol, side string, totalQuantity decimal.Decimal, slices int) []domain.OrderRequest {
	quantities := quant.SplitQuantity(totalQuantity, slices)

	reqs := make([]domain.OrderRequest, 0, slices)
	for _, qty := range quantities {
		reqs = append(reqs, domain.OrderRequest{
			Symbol:   symbol,
			Side:     side,
			Type:     domain.OrderTypeMarket,
			Quantity: qty,
		})
	}
	return reqs
}

// PlaceTWAP executes a time-weighted schedule: slices are submitted as
// market orders strictly in order, separated by interval. Unlike grid, a
// slice failure is fatal to the run — a schedule with gaps undermines the
// averaging intent — so execution halts and the partial results come back
// with Terminal=false alongside the error. Cancellation is honored both
// before each submission and during the inter-slice wait.
func (e *Engine) PlaceTWAP(ctx context.Context, symbol, side string, totalQuantity decimal.Decimal, slices int, interval time.Duration) (*domain.StrategyExecutionResult, error) {
	in := &domain.Intent{
		Symbol:       symbol,
		Side:         side,
		Kind:         domain.StrategyTWAP,
		Quantity:     totalQuantity,
		TWAPSlices:   slices,
		TWAPInterval: interval,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	canonical := domain.NormalizeSymbol(in.Symbol)
	reqs := BuildTWAPRequests(canonical, in.Side, in.Quantity, in.TWAPSlices)

	e.logger.Info("Starting TWAP run",
		slog.String("symbol", canonical),
		slog.String("side", in.Side),
		slog.Int("slices", in.TWAPSlices),
		slog.Duration("interval", interval))

	result := &domain.StrategyExecutionResult{Kind: domain.StrategyTWAP}
	for i, req := range reqs {
		sliceNum := i + 1

		if err := ctx.Err(); err != nil {
			e.abortTWAP(result, sliceNum, err)
			return result, err
		}

		res, err := e.submitAndRecord(ctx, req, domain.StrategyTWAP, sliceNum)
		if err != nil {
			e.abortTWAP(result, sliceNum, err)
			return result, err
		}

		if e.metrics != nil {
			e.metrics.RecordTWAPSliceExecuted()
		}
		result.Results = append(result.Results, *res)

		// Pace the schedule; the last slice needs no trailing wait.
		if sliceNum < len(reqs) {
			if err := e.wait(ctx, interval); err != nil {
				e.abortTWAP(result, sliceNum+1, err)
				return result, err
			}
		}
	}

	result.Terminal = true
	e.logger.Info("TWAP run completed",
		slog.String("symbol", canonical),
		slog.Int("slices", len(result.Results)))
	return result, nil
}

func (e *Engine) abortTWAP(result *domain.StrategyExecutionResult, sliceNum int, err error) {
	result.Terminal = false
	if e.metrics != nil {
		e.metrics.RecordTWAPRunAborted()
	}
	e.logger.Error("TWAP run aborted",
		slog.Int("slice", sliceNum),
		slog.Int("executed", len(result.Results)),
		slog.Any("error", err))
}
