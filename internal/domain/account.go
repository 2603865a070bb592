package domain

import "github.com/shopspring/decimal"

// AccountBalance summarizes the futures wallet as reported by the exchange.
type AccountBalance struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	MaintMargin      decimal.Decimal `json:"maint_margin"`
}

// UsedBalance returns the portion of the wallet currently committed.
func (a *AccountBalance) UsedBalance() decimal.Decimal {
	return a.TotalBalance.Sub(a.AvailableBalance)
}
