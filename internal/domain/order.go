package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderTypeMarket    = "MARKET"
	OrderTypeLimit     = "LIMIT"
	OrderTypeStopLimit = "STOP_LIMIT"

	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"
	OrderStatusRejected        = "REJECTED"
	OrderStatusExpired         = "EXPIRED"

	TimeInForceGTC = "GTC"
	TimeInForceIOC = "IOC"
	TimeInForceFOK = "FOK"
)

// StrategyKind identifies which placement strategy produced an order.
type StrategyKind string

const (
	StrategyMarket    StrategyKind = "MARKET"
	StrategyLimit     StrategyKind = "LIMIT"
	StrategyStopLimit StrategyKind = "STOP_LIMIT"
	StrategyOCO       StrategyKind = "OCO"
	StrategyGrid      StrategyKind = "GRID"
	StrategyTWAP      StrategyKind = "TWAP"
)

// OrderRequest is one atomic order shaped for the exchange.
// Produced by strategy decomposition, never mutated after creation.
type OrderRequest struct {
	Symbol         string
	Side           string
	Type           string
	Quantity       decimal.Decimal
	Price          decimal.Decimal // zero for market orders
	StopPrice      decimal.Decimal // trigger price (stop-limit, OCO stop leg)
	StopLimitPrice decimal.Decimal // OCO stop leg limit price
	TimeInForce    string
}

// OrderResult is the exchange's authoritative response for one submitted order.
type OrderResult struct {
	OrderID     int64
	Symbol      string
	Side        string
	Type        string
	Status      string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
	ExecutedQty decimal.Decimal
	UpdatedAt   time.Time
}

// IsOpen checks if the order is still active on the exchange.
func (r *OrderResult) IsOpen() bool {
	return r.Status == OrderStatusNew || r.Status == OrderStatusPartiallyFilled
}

// StrategyExecutionResult carries every result a multi-order run collected,
// plus whether the full plan was attempted. Terminal is false only when the
// run stopped before attempting all planned units.
type StrategyExecutionResult struct {
	Kind     StrategyKind
	Results  []OrderResult
	Terminal bool
}
