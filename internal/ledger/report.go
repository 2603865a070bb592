package ledger

import (
	"fmt"
	"io"
	"strings"

	"trading_go/internal/domain"
)

// Reporter renders ledger contents for display. It only reads.
type Reporter struct {
	ledger *Ledger
}

// NewReporter creates a reporter over a ledger.
func NewReporter(l *Ledger) *Reporter {
	return &Reporter{ledger: l}
}

// RenderHistory writes the full order history, oldest first.
func (r *Reporter) RenderHistory(w io.Writer) {
	entries := r.ledger.All()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No orders in history")
		return
	}

	line := strings.Repeat("=", 100)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "ORDER HISTORY")
	fmt.Fprintln(w, line)

	for i, e := range entries {
		fmt.Fprintf(w, "\nOrder #%d\n", i+1)
		fmt.Fprintf(w, "   Order ID:  %d\n", e.Result.OrderID)
		fmt.Fprintf(w, "   Symbol:    %s\n", e.Result.Symbol)
		fmt.Fprintf(w, "   Strategy:  %s%s\n", e.Strategy, indexSuffix(e))
		fmt.Fprintf(w, "   Side:      %s\n", e.Result.Side)
		fmt.Fprintf(w, "   Quantity:  %s\n", e.Result.Quantity)
		fmt.Fprintf(w, "   Price:     %s\n", priceOrMarket(e))
		fmt.Fprintf(w, "   Status:    %s\n", e.Result.Status)
		fmt.Fprintf(w, "   Submitted: %s\n", e.SubmittedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
}

func indexSuffix(e *Entry) string {
	if e.Index == 0 {
		return ""
	}
	switch e.Strategy {
	case domain.StrategyGrid:
		return fmt.Sprintf(" (level %d)", e.Index)
	case domain.StrategyTWAP:
		return fmt.Sprintf(" (slice %d)", e.Index)
	default:
		return fmt.Sprintf(" (%d)", e.Index)
	}
}

func priceOrMarket(e *Entry) string {
	if e.Result.Price.IsZero() {
		return "Market"
	}
	return e.Result.Price.String()
}
