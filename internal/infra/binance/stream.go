package binance

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"trading_go/internal/infra"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	maxRetries  = 10
	readTimeout = 90 * time.Second
)

// MarkPriceWorker keeps a live mark-price feed over the combined websocket
// stream and pushes every update into the price cache through onUpdate.
type MarkPriceWorker struct {
	wsURL    string
	symbols  []string
	onUpdate func(symbol string, price decimal.Decimal)

	conn      *websocket.Conn
	mu        sync.RWMutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	logger    *slog.Logger
}

// NewMarkPriceWorker factory
func NewMarkPriceWorker(wsURL string, symbols []string, onUpdate func(string, decimal.Decimal)) *MarkPriceWorker {
	return &MarkPriceWorker{
		wsURL:    wsURL,
		symbols:  symbols,
		onUpdate: onUpdate,
		logger:   slog.Default().With("module", "mark_price_worker"),
	}
}

func (w *MarkPriceWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// IsConnected reports whether the stream currently has a live connection.
func (w *MarkPriceWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *MarkPriceWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			w.logger.Warn("Mark price stream connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0 // Infinite retry loop for monitoring
			}
			delay := infra.CalculateBackoff(retryCount)
			time.Sleep(delay)
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *MarkPriceWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.streamURL(), nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	w.logger.Info("Mark price stream connected", slog.Int("symbols", len(w.symbols)))
	return nil
}

// streamURL builds the combined-stream URL: one @markPrice stream per symbol.
func (w *MarkPriceWorker) streamURL() string {
	streams := make([]string, 0, len(w.symbols))
	for _, s := range w.symbols {
		streams = append(streams, strings.ToLower(s)+"@markPrice")
	}
	return w.wsURL + "/stream?streams=" + strings.Join(streams, "/")
}

func (w *MarkPriceWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Snapshot the conn so a concurrent Disconnect nil-ing w.conn
		// between the check and the read cannot deref nil.
		w.mu.RLock()
		conn := w.conn
		w.mu.RUnlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *MarkPriceWorker) handleMessage(msg []byte) {
	var wrapped combinedStreamMessage
	if err := json.Unmarshal(msg, &wrapped); err != nil {
		return
	}
	ev := wrapped.Data
	if ev.EventType != "markPriceUpdate" || ev.Symbol == "" {
		return
	}

	price, err := decimal.NewFromString(ev.MarkPrice)
	if err != nil {
		return
	}

	if w.onUpdate != nil {
		w.onUpdate(ev.Symbol, price)
	}
}

func (w *MarkPriceWorker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
}

func (w *MarkPriceWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
