package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"trading_go/internal/domain"
	"trading_go/internal/engine"
	"trading_go/internal/infra"
	"trading_go/internal/ledger"
	"trading_go/internal/service"

	"github.com/shopspring/decimal"
)

const divider = "============================================================"

// Menu is the interactive console front-end. It reads numbered choices from
// in and drives the engine; every blocking call inherits the run context so
// Ctrl+C interrupts long strategies (TWAP waits in particular).
type Menu struct {
	engine   *engine.Engine
	client   domain.ExchangeClient
	prices   *service.PriceService
	reporter *ledger.Reporter
	cfg      *infra.Config

	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(eng *engine.Engine, client domain.ExchangeClient, prices *service.PriceService, cfg *infra.Config, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		engine:   eng,
		client:   client,
		prices:   prices,
		reporter: ledger.NewReporter(eng.Ledger()),
		cfg:      cfg,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops until the user exits or ctx is canceled.
func (m *Menu) Run(ctx context.Context) {
	fmt.Fprintln(m.out, "\n✅ Trading engine initialized successfully!")

	for {
		if ctx.Err() != nil {
			return
		}
		m.display()

		choice, ok := m.readLine("Enter your choice: ")
		if !ok {
			return
		}

		switch choice {
		case "1.1":
			m.showBalance(ctx)
		case "1.2":
			m.showOpenOrders(ctx)
		case "2.1":
			m.placeMarket(ctx)
		case "2.2":
			m.placeLimit(ctx)
		case "2.3":
			m.placeStopLimit(ctx)
		case "2.4":
			m.placeOCO(ctx)
		case "2.5":
			m.placeGrid(ctx)
		case "2.6":
			m.placeTWAP(ctx)
		case "3.1":
			m.showOrderStatus(ctx)
		case "3.2":
			m.cancelOrder(ctx)
		case "4.1":
			m.reporter.RenderHistory(m.out)
		case "5":
			fmt.Fprintln(m.out, "\n👋 Goodbye!")
			return
		default:
			fmt.Fprintln(m.out, "❌ Invalid choice. Please try again.")
		}
	}
}

func (m *Menu) display() {
	fmt.Fprintln(m.out, "\n"+divider)
	fmt.Fprintln(m.out, "🤖 TRADING GO")
	fmt.Fprintln(m.out, divider)
	m.renderQuotes()
	fmt.Fprintln(m.out, "\n1. Account & Balance")
	fmt.Fprintln(m.out, "   [1.1] Check Account Balance")
	fmt.Fprintln(m.out, "   [1.2] Check Open Orders")
	fmt.Fprintln(m.out, "\n2. Place Orders")
	fmt.Fprintln(m.out, "   [2.1] Market Order")
	fmt.Fprintln(m.out, "   [2.2] Limit Order")
	fmt.Fprintln(m.out, "   [2.3] Stop-Limit Order")
	fmt.Fprintln(m.out, "   [2.4] OCO Order")
	fmt.Fprintln(m.out, "   [2.5] Grid Orders")
	fmt.Fprintln(m.out, "   [2.6] TWAP Orders")
	fmt.Fprintln(m.out, "\n3. Manage Orders")
	fmt.Fprintln(m.out, "   [3.1] Get Order Status")
	fmt.Fprintln(m.out, "   [3.2] Cancel Order")
	fmt.Fprintln(m.out, "\n4. View History")
	fmt.Fprintln(m.out, "   [4.1] Display Order History")
	fmt.Fprintln(m.out, "\n5. Exit")
	fmt.Fprintln(m.out, "\n"+divider)
}

// showCurrentPrice prints the latest known price for a symbol before the
// user picks price levels. Prefers the streamed cache, falls back to a REST
// ticker lookup, and stays silent when both miss.
func (m *Menu) showCurrentPrice(ctx context.Context, symbol string) {
	canonical := domain.NormalizeSymbol(symbol)

	if m.prices != nil {
		if price, ok := m.prices.Get(canonical); ok {
			fmt.Fprintf(m.out, "📈 Current price: %s %s\n", canonical, price.String())
			return
		}
	}

	price, err := m.client.GetTicker(ctx, canonical)
	if err != nil {
		return
	}
	fmt.Fprintf(m.out, "📈 Current price: %s %s\n", canonical, price.String())
}

// renderQuotes shows the latest streamed mark prices, if any arrived yet.
func (m *Menu) renderQuotes() {
	if m.prices == nil {
		return
	}
	quotes := m.prices.GetAll()
	if len(quotes) == 0 {
		return
	}
	fmt.Fprintln(m.out, "\n📈 Live Prices:")
	for _, q := range quotes {
		fmt.Fprintf(m.out, "   %s: %s\n", q.Symbol, q.Price.String())
	}
}

func (m *Menu) showBalance(ctx context.Context) {
	balance, err := m.client.GetAccount(ctx)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintln(m.out, "\n💰 Account Balance:")
	fmt.Fprintf(m.out, "   Total Wallet Balance: $%s\n", balance.TotalBalance.StringFixed(2))
	fmt.Fprintf(m.out, "   Available Balance: $%s\n", balance.AvailableBalance.StringFixed(2))
	fmt.Fprintf(m.out, "   Used Balance: $%s\n", balance.UsedBalance().StringFixed(2))
}

func (m *Menu) showOpenOrders(ctx context.Context) {
	symbol, _ := m.readLine("Enter symbol (e.g., BTCUSDT) [leave blank for all]: ")

	orders, err := m.engine.ListOpenOrders(ctx, symbol)
	if err != nil {
		m.printError(err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(m.out, "No open orders found")
		return
	}

	fmt.Fprintf(m.out, "\n📊 Open Orders (%d):\n", len(orders))
	for i, order := range orders {
		fmt.Fprintf(m.out, "\n   %d. %s - %s\n", i+1, order.Symbol, order.Side)
		fmt.Fprintf(m.out, "      Type: %s\n", order.Type)
		fmt.Fprintf(m.out, "      Order ID: %d\n", order.OrderID)
		fmt.Fprintf(m.out, "      Quantity: %s\n", order.Quantity.String())
		fmt.Fprintf(m.out, "      Price: %s\n", order.Price.String())
		fmt.Fprintf(m.out, "      Status: %s\n", order.Status)
	}
}

func (m *Menu) placeMarket(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	side := m.readSide()
	quantity := m.mustDecimal("Enter quantity: ")

	result, err := m.engine.PlaceMarket(ctx, symbol, side, quantity)
	if err != nil {
		m.printError(err)
		return
	}
	m.printOrder(result)
}

func (m *Menu) placeLimit(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	m.showCurrentPrice(ctx, symbol)
	side := m.readSide()
	quantity := m.mustDecimal("Enter quantity: ")
	price := m.mustDecimal("Enter limit price: ")

	result, err := m.engine.PlaceLimit(ctx, symbol, side, quantity, price, "")
	if err != nil {
		m.printError(err)
		return
	}
	m.printOrder(result)
}

func (m *Menu) placeStopLimit(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	side := m.readSide()
	quantity := m.mustDecimal("Enter quantity: ")
	price := m.mustDecimal("Enter limit price: ")
	stopPrice := m.mustDecimal("Enter stop (trigger) price: ")

	result, err := m.engine.PlaceStopLimit(ctx, symbol, side, quantity, price, stopPrice, "")
	if err != nil {
		m.printError(err)
		return
	}
	m.printOrder(result)
}

func (m *Menu) placeOCO(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	side := m.readSide()
	quantity := m.mustDecimal("Enter quantity: ")
	price := m.mustDecimal("Enter take-profit price: ")
	stopPrice := m.mustDecimal("Enter stop price: ")
	stopLimitPrice := m.readDecimal("Enter stop-limit price [default: stop price]: ")

	result, err := m.engine.PlaceOCO(ctx, symbol, side, quantity, price, stopPrice, stopLimitPrice)
	if err != nil {
		m.printError(err)
		return
	}
	m.printOrder(result)
}

func (m *Menu) placeGrid(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	m.showCurrentPrice(ctx, symbol)
	side := m.readSide()
	quantity := m.mustDecimal("Enter total quantity: ")
	basePrice := m.mustDecimal("Enter base price: ")
	levels := m.readInt(fmt.Sprintf("Enter number of levels [default: %d]: ", m.cfg.Trading.Grid.Levels), m.cfg.Trading.Grid.Levels)
	percent := m.readDecimal(fmt.Sprintf("Enter level spacing percent [default: %s]: ", m.cfg.Trading.Grid.Percent))
	if percent.IsZero() {
		percent = m.cfg.GridPercent()
	}

	result, err := m.engine.PlaceGrid(ctx, symbol, side, quantity, basePrice, levels, percent)
	if err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintf(m.out, "\n✅ Grid finished: %d/%d levels placed\n", len(result.Results), levels)
}

func (m *Menu) placeTWAP(ctx context.Context) {
	symbol := m.mustLine("Enter symbol (e.g., BTCUSDT or btc): ")
	side := m.readSide()
	quantity := m.mustDecimal("Enter total quantity: ")
	slices := m.readInt(fmt.Sprintf("Enter number of slices [default: %d]: ", m.cfg.Trading.TWAP.Slices), m.cfg.Trading.TWAP.Slices)
	intervalSec := m.readInt(fmt.Sprintf("Enter interval seconds [default: %d]: ", m.cfg.Trading.TWAP.IntervalSec), m.cfg.Trading.TWAP.IntervalSec)

	fmt.Fprintf(m.out, "\n⏱ Executing TWAP: %d slices, %ds apart (Ctrl+C aborts)\n", slices, intervalSec)

	result, err := m.engine.PlaceTWAP(ctx, symbol, side, quantity, slices, time.Duration(intervalSec)*time.Second)
	if err != nil {
		if result != nil {
			fmt.Fprintf(m.out, "\n❌ TWAP aborted after %d/%d slices\n", len(result.Results), slices)
		}
		m.printError(err)
		return
	}
	fmt.Fprintf(m.out, "\n✅ TWAP completed: %d slices executed\n", len(result.Results))
}

func (m *Menu) showOrderStatus(ctx context.Context) {
	symbol := m.mustLine("Enter symbol: ")
	orderID := m.readInt64("Enter order ID: ")

	// Prefer the local record for strategy context, then refresh from the
	// exchange for the live status.
	if entry, err := m.engine.Ledger().FindByOrderID(orderID); err == nil {
		fmt.Fprintf(m.out, "\n📋 Local record: %s strategy, submitted %s\n",
			entry.Strategy, entry.SubmittedAt.Format(time.DateTime))
	}

	result, err := m.engine.GetOrderStatus(ctx, symbol, orderID)
	if err != nil {
		m.printError(err)
		return
	}
	m.printOrder(result)
}

func (m *Menu) cancelOrder(ctx context.Context) {
	symbol := m.mustLine("Enter symbol: ")
	orderID := m.readInt64("Enter order ID: ")

	if err := m.engine.CancelOrder(ctx, symbol, orderID); err != nil {
		m.printError(err)
		return
	}
	fmt.Fprintf(m.out, "\n✅ Order %d canceled\n", orderID)
}

func (m *Menu) printOrder(r *domain.OrderResult) {
	fmt.Fprintln(m.out, "\n✅ Order placed:")
	fmt.Fprintf(m.out, "   Order ID: %d\n", r.OrderID)
	fmt.Fprintf(m.out, "   Symbol: %s\n", r.Symbol)
	fmt.Fprintf(m.out, "   Side: %s\n", r.Side)
	fmt.Fprintf(m.out, "   Type: %s\n", r.Type)
	fmt.Fprintf(m.out, "   Quantity: %s\n", r.Quantity.String())
	if r.Price.IsPositive() {
		fmt.Fprintf(m.out, "   Price: %s\n", r.Price.String())
	}
	fmt.Fprintf(m.out, "   Status: %s\n", r.Status)
}

func (m *Menu) printError(err error) {
	var ve *domain.ValidationError
	var ee *domain.ExchangeError
	switch {
	case errors.As(err, &ve):
		fmt.Fprintf(m.out, "❌ Invalid input: %s\n", ve.Reason)
	case errors.As(err, &ee):
		fmt.Fprintf(m.out, "❌ Exchange rejected the request: %s (code %d)\n", ee.Message, ee.Code)
	default:
		fmt.Fprintf(m.out, "❌ Request failed: %v\n", err)
	}
	slog.Warn("Menu action failed", slog.Any("error", err))
}

// readLine returns the trimmed next input line; ok is false on EOF.
func (m *Menu) readLine(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// mustLine re-prompts until a non-empty line arrives. EOF yields "".
func (m *Menu) mustLine(prompt string) string {
	for {
		line, ok := m.readLine(prompt)
		if !ok {
			return ""
		}
		if line != "" {
			return line
		}
		fmt.Fprintln(m.out, "❌ This field is required")
	}
}

func (m *Menu) readSide() string {
	for {
		line := m.mustLine("Enter side (BUY/SELL): ")
		if line == "" {
			// input exhausted; let intent validation report it
			return ""
		}
		side := strings.ToUpper(line)
		if side == domain.SideBuy || side == domain.SideSell {
			return side
		}
		fmt.Fprintln(m.out, "❌ Side must be BUY or SELL")
	}
}

// readDecimal parses an optional decimal; blank or invalid input yields zero.
func (m *Menu) readDecimal(prompt string) decimal.Decimal {
	line, ok := m.readLine(prompt)
	if !ok || line == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(line)
	if err != nil {
		fmt.Fprintln(m.out, "❌ Invalid number, using default")
		return decimal.Zero
	}
	return d
}

// mustDecimal re-prompts until a valid decimal arrives.
func (m *Menu) mustDecimal(prompt string) decimal.Decimal {
	for {
		line := m.mustLine(prompt)
		if line == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(line)
		if err != nil {
			fmt.Fprintln(m.out, "❌ Invalid input. Please enter a valid number")
			continue
		}
		return d
	}
}

// readInt parses an optional integer, falling back to def on blank input.
func (m *Menu) readInt(prompt string, def int) int {
	line, ok := m.readLine(prompt)
	if !ok || line == "" {
		return def
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		fmt.Fprintln(m.out, "❌ Invalid number, using default")
		return def
	}
	return n
}

func (m *Menu) readInt64(prompt string) int64 {
	for {
		line := m.mustLine(prompt)
		if line == "" {
			return 0
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintln(m.out, "❌ Invalid input. Please enter a valid integer")
			continue
		}
		return n
	}
}
