package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeClient is the capability the execution engine uses to talk to the
// remote exchange. Implementations own transport, signing and rate limiting;
// the engine treats it as an opaque injected dependency. Calls are expected
// to carry their own timeout and surface it as an error rather than hang.
type ExchangeClient interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	GetOrder(ctx context.Context, symbol string, orderID int64) (*OrderResult, error)
	ListOpenOrders(ctx context.Context, symbol string) ([]*OrderResult, error)
	GetTicker(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetAccount(ctx context.Context) (*AccountBalance, error)
}

// SymbolRepository defines how cached symbol metadata is accessed.
type SymbolRepository interface {
	UpsertSymbol(info *SymbolInfo) error
	GetSymbol(symbol string) (*SymbolInfo, error)
	GetAllSymbols() ([]SymbolInfo, error)
}
