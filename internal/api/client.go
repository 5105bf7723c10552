package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pos_terminal/internal/config"
	"pos_terminal/internal/pos"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// The backend speaks bare JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrUnavailable = errors.New("pos api unavailable")
	ErrNoItems     = errors.New("sale has no items")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pos api error: %s", e.Status)
	}
	return fmt.Sprintf("pos api error: %s: %s", e.Status, e.Body)
}

type createSaleRequest struct {
	Total decimal.Decimal    `json:"total"`
	Items []pos.CheckoutItem `json:"items"`
}

type createSaleResponse struct {
	SaleID int64 `json:"saleId"`
}

// Client wraps the four POS backend endpoints. Every operation returns an
// explicit error; callers never get an empty default standing in for a
// failure.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   httpClient,
		logger: logger.Named("api"),
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]pos.Product, error) {
	var products []pos.Product
	if err := c.doGet(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateSale submits the sale and returns the server-assigned sale id. Each
// request carries a fresh Idempotency-Key so a server that honors it can drop
// accidental duplicates.
func (c *Client) CreateSale(ctx context.Context, total decimal.Decimal, items []pos.CheckoutItem) (int64, error) {
	if len(items) == 0 {
		return 0, ErrNoItems
	}

	var result createSaleResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(createSaleRequest{Total: total, Items: items}).
		SetResult(&result).
		Post("/sales")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return 0, apiErrorFromResponse(resp)
	}

	c.logger.Info("sale created",
		zap.Int64("sale_id", result.SaleID),
		zap.String("total", total.StringFixed(2)),
		zap.Int("items", len(items)),
	)
	return result.SaleID, nil
}

func (c *Client) GetDailySummary(ctx context.Context) ([]pos.DailySummary, error) {
	var summaries []pos.DailySummary
	if err := c.doGet(ctx, "/daily-sales", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]pos.Sale, error) {
	var sales []pos.Sale
	if err := c.doGet(ctx, "/transactions", &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) doGet(ctx context.Context, path string, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetResult(result).Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}
}
