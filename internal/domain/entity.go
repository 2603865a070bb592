package domain

import (
	"time"
)

// SymbolInfo caches per-symbol trading constraints fetched from the exchange
// info endpoint. Tick and step sizes are kept as strings at the boundary and
// parsed with decimal where needed.
type SymbolInfo struct {
	Symbol         string    `gorm:"primaryKey" json:"symbol"`
	TickSize       string    `json:"tick_size"`
	StepSize       string    `json:"step_size"`
	PricePrecision int       `json:"price_precision"`
	QtyPrecision   int       `json:"qty_precision"`
	IsActive       bool      `json:"is_active" gorm:"index"` // Active trading status
	LastSyncedAt   time.Time `json:"last_synced_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AppConfig represents user-specific configuration (Key-Value)
type AppConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
