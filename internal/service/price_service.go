package service

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest known price of one symbol.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceService keeps the latest streamed price per symbol. One writer (the
// stream worker) and any number of readers (CLI, engine).
type PriceService struct {
	mu     sync.RWMutex
	quotes map[string]*Quote
}

// NewPriceService creates a new PriceService instance
func NewPriceService() *PriceService {
	return &PriceService{
		quotes: make(map[string]*Quote),
	}
}

// Update records the latest price for a symbol.
func (s *PriceService) Update(symbol string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quotes[symbol]
	if !exists {
		q = &Quote{Symbol: symbol}
		s.quotes[symbol] = q
	}
	q.Price = price
	q.UpdatedAt = time.Now()
}

// Get returns the latest price for a symbol, if any update has arrived.
func (s *PriceService) Get(symbol string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[symbol]
	if !ok {
		return decimal.Zero, false
	}
	return q.Price, true
}

// GetAll returns all quotes sorted by symbol for consistent ordering.
func (s *PriceService) GetAll() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		result = append(result, *q)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result
}
