package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pos_terminal/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("receipt printer is not configured")

// Item is one receipt line. Field names follow the printer wire contract.
type Item struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type printRequest struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Client submits receipts to an HTTP receipt printer service. A blank printer
// URL leaves the client disabled; Print then fails with ErrNotConfigured.
type Client struct {
	http    *resty.Client
	enabled bool
	logger  *zap.Logger
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	url := strings.TrimSpace(cfg.PrinterURL)
	httpClient := resty.New().
		SetBaseURL(url).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		http:    httpClient,
		enabled: url != "",
		logger:  logger.Named("printer"),
	}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

func (c *Client) Print(ctx context.Context, items []Item, total decimal.Decimal) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(printRequest{Items: items, Total: total}).
		Post("/print")
	if err != nil {
		return fmt.Errorf("printer request: %w", err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if body == "" {
			return fmt.Errorf("printer error: %s", resp.Status())
		}
		return fmt.Errorf("printer error: %s: %s", resp.Status(), body)
	}

	c.logger.Info("receipt printed", zap.Int("lines", len(items)), zap.String("total", total.StringFixed(2)))
	return nil
}

// IsPrinterFailure reports whether err came from the printer collaborator.
// The printer surfaces failures only through its message, so classification
// inspects the description.
func IsPrinterFailure(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "printer")
}
