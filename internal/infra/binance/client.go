package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trading_go/internal/domain"
	"trading_go/internal/infra"

	"github.com/shopspring/decimal"
)

// Client is the Binance USDT-M futures REST client (Boundary Layer).
// It implements domain.ExchangeClient.
type Client struct {
	baseURL    string
	recvWindow int
	httpClient *http.Client
	signer     *Signer
	logger     *slog.Logger
}

// NewClient creates a new Binance API client.
func NewClient(cfg *infra.Config) *Client {
	signer := NewSigner(
		cfg.API.Binance.APIKey,
		cfg.API.Binance.APISecret,
	)

	return &Client{
		baseURL:    cfg.API.Binance.RestURL,
		recvWindow: cfg.Trading.RecvWindowMS,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: signer,
		logger: slog.Default().With("module", "binance_client"),
	}
}

// CreateOrder submits one order. Stop-limit orders map to the venue's "STOP"
// type (limit price + trigger). OCO intents arrive as a LIMIT request carrying
// stop leg prices, which the venue pairs atomically server-side.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", req.Side)
	params.Set("quantity", req.Quantity.String())

	switch req.Type {
	case domain.OrderTypeMarket:
		params.Set("type", "MARKET")
	case domain.OrderTypeLimit:
		params.Set("type", "LIMIT")
		params.Set("price", req.Price.String())
		params.Set("timeInForce", tifOrDefault(req.TimeInForce))
	case domain.OrderTypeStopLimit:
		params.Set("type", "STOP")
		params.Set("price", req.Price.String())
		params.Set("stopPrice", req.StopPrice.String())
		params.Set("timeInForce", tifOrDefault(req.TimeInForce))
	default:
		return nil, &domain.ValidationError{Field: "type", Reason: "unsupported order type " + req.Type}
	}

	// OCO stop leg riding on a LIMIT submission
	if req.Type == domain.OrderTypeLimit && req.StopPrice.IsPositive() {
		params.Set("stopPrice", req.StopPrice.String())
		params.Set("stopLimitPrice", req.StopLimitPrice.String())
		params.Set("stopLimitTimeInForce", tifOrDefault(req.TimeInForce))
	}

	body, err := c.doSigned(ctx, http.MethodPost, "/fapi/v1/order", params, "create_order")
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	result := toOrderResult(&resp)
	c.logger.Info("Order placed",
		slog.Int64("order_id", result.OrderID),
		slog.String("symbol", result.Symbol),
		slog.String("status", result.Status))
	return result, nil
}

// CancelOrder cancels an open order on the exchange.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	_, err := c.doSigned(ctx, http.MethodDelete, "/fapi/v1/order", params, "cancel_order")
	if err != nil {
		return err
	}

	c.logger.Info("Order canceled", slog.Int64("order_id", orderID), slog.String("symbol", symbol))
	return nil
}

// GetOrder re-queries the current state of one order.
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*domain.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.doSigned(ctx, http.MethodGet, "/fapi/v1/order", params, "get_order")
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}
	return toOrderResult(&resp), nil
}

// ListOpenOrders returns all open orders, optionally filtered by symbol.
func (c *Client) ListOpenOrders(ctx context.Context, symbol string) ([]*domain.OrderResult, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.doSigned(ctx, http.MethodGet, "/fapi/v1/openOrders", params, "list_open_orders")
	if err != nil {
		return nil, err
	}

	var resp []orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse open orders response: %w", err)
	}

	results := make([]*domain.OrderResult, 0, len(resp))
	for i := range resp {
		results = append(results, toOrderResult(&resp[i]))
	}
	return results, nil
}

// GetTicker returns the last traded price for a symbol.
func (c *Client) GetTicker(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.doPublic(ctx, "/fapi/v1/ticker/price", params, "get_ticker")
	if err != nil {
		return decimal.Zero, err
	}

	var resp tickerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse ticker response: %w", err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad ticker price %q: %w", resp.Price, err)
	}
	return price, nil
}

// GetAccount returns the futures wallet summary.
func (c *Client) GetAccount(ctx context.Context) (*domain.AccountBalance, error) {
	body, err := c.doSigned(ctx, http.MethodGet, "/fapi/v2/account", url.Values{}, "get_account")
	if err != nil {
		return nil, err
	}

	var resp accountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse account response: %w", err)
	}

	return &domain.AccountBalance{
		TotalBalance:     parseDecimal(resp.TotalWalletBalance),
		AvailableBalance: parseDecimal(resp.AvailableBalance),
		MaintMargin:      parseDecimal(resp.TotalMaintMargin),
	}, nil
}

// GetExchangeInfo fetches the symbol universe and its trading constraints.
func (c *Client) GetExchangeInfo(ctx context.Context) ([]domain.SymbolInfo, error) {
	body, err := c.doPublic(ctx, "/fapi/v1/exchangeInfo", url.Values{}, "get_exchange_info")
	if err != nil {
		return nil, err
	}

	var resp exchangeInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse exchange info: %w", err)
	}

	now := time.Now()
	infos := make([]domain.SymbolInfo, 0, len(resp.Symbols))
	for _, s := range resp.Symbols {
		info := domain.SymbolInfo{
			Symbol:         s.Symbol,
			PricePrecision: s.PricePrecision,
			QtyPrecision:   s.QuantityPrecision,
			IsActive:       s.Status == "TRADING",
			LastSyncedAt:   now,
		}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "PRICE_FILTER":
				info.TickSize = f.TickSize
			case "LOT_SIZE":
				info.StepSize = f.StepSize
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// doSigned sends an authenticated request. The signature covers the full
// query string including timestamp and recvWindow.
func (c *Client) doSigned(ctx context.Context, method, path string, params url.Values, op string) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("recvWindow", strconv.Itoa(c.recvWindow))

	query := params.Encode()
	query += "&signature=" + c.signer.Sign(query)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())

	return c.do(req, op)
}

// doPublic sends an unauthenticated request to a public market data endpoint.
func (c *Client) doPublic(ctx context.Context, path string, params url.Values, op string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req, op)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, &domain.ExchangeError{Code: apiErr.Code, Message: apiErr.Msg}
		}
		return nil, &domain.ExchangeError{Code: resp.StatusCode, Message: string(body)}
	}

	return body, nil
}

func toOrderResult(r *orderResponse) *domain.OrderResult {
	orderType := r.Type
	if orderType == "STOP" {
		orderType = domain.OrderTypeStopLimit
	}
	return &domain.OrderResult{
		OrderID:     r.OrderID,
		Symbol:      r.Symbol,
		Side:        r.Side,
		Type:        orderType,
		Status:      r.Status,
		Price:       parseDecimal(r.Price),
		Quantity:    parseDecimal(r.OrigQty),
		ExecutedQty: parseDecimal(r.ExecutedQty),
		UpdatedAt:   time.UnixMilli(r.UpdateTime),
	}
}

// parseDecimal converts a boundary string, treating absent or malformed
// values as zero. The exchange omits price fields for market orders.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func tifOrDefault(tif string) string {
	if tif == "" {
		return domain.TimeInForceGTC
	}
	return tif
}
