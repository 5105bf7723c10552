package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pos_terminal/internal/printer"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrUnknownProduct   = errors.New("unknown product")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)

// SalesAPI is the remote POS backend. Failures propagate as errors so callers
// can tell an empty result from a failed request.
type SalesAPI interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateSale(ctx context.Context, total decimal.Decimal, items []CheckoutItem) (int64, error)
	GetDailySummary(ctx context.Context) ([]DailySummary, error)
	ListTransactions(ctx context.Context) ([]Sale, error)
}

// ReceiptPrinter is the external receipt printer collaborator.
type ReceiptPrinter interface {
	Enabled() bool
	Print(ctx context.Context, items []printer.Item, total decimal.Decimal) error
}

// CheckoutResult reports a committed sale. PrintNotice and ReloadNotice carry
// non-fatal problems that occurred around the sale itself.
type CheckoutResult struct {
	SaleID       int64
	Total        decimal.Decimal
	PrintNotice  string
	ReloadNotice string
}

// Register owns the catalog snapshot, the cart, and the loaded summary and
// transaction history. It is single-owner state, mutated only from the
// command loop; no locking.
type Register struct {
	api     SalesAPI
	printer ReceiptPrinter
	logger  *zap.Logger

	catalog      []Product
	cart         *Cart
	summary      DailySummary
	transactions []Sale
	processing   bool
}

func NewRegister(api SalesAPI, receiptPrinter ReceiptPrinter, logger *zap.Logger) *Register {
	return &Register{
		api:     api,
		printer: receiptPrinter,
		logger:  logger.Named("register"),
		cart:    NewCart(),
	}
}

func (r *Register) Catalog() []Product {
	return r.catalog
}

func (r *Register) Summary() DailySummary {
	return r.summary
}

func (r *Register) Transactions() []Sale {
	return r.transactions
}

func (r *Register) CartLines() []CartLine {
	return r.cart.Lines()
}

func (r *Register) CartTotal() decimal.Decimal {
	return r.cart.Total()
}

func (r *Register) CartQuantity(productID int64) int {
	return r.cart.Quantity(productID)
}

// LoadProducts refreshes the catalog snapshot. On failure the snapshot is
// left as it was.
func (r *Register) LoadProducts(ctx context.Context) error {
	products, err := r.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	r.catalog = products
	return nil
}

// LoadSummary fetches the daily aggregates and keeps the first entry, or a
// zeroed summary when the backend has none for today.
func (r *Register) LoadSummary(ctx context.Context) error {
	summaries, err := r.api.GetDailySummary(ctx)
	if err != nil {
		return fmt.Errorf("load daily summary: %w", err)
	}
	if len(summaries) > 0 {
		r.summary = summaries[0]
	} else {
		r.summary = DailySummary{TotalAmount: decimal.Zero}
	}
	return nil
}

func (r *Register) LoadTransactions(ctx context.Context) error {
	sales, err := r.api.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	r.transactions = sales
	return nil
}

// AddToCart resolves productID against the catalog snapshot and adds one unit
// to the cart. Returns the resolved product for confirmation messages.
func (r *Register) AddToCart(productID int64) (Product, error) {
	for _, p := range r.catalog {
		if p.ID == productID {
			if err := r.cart.Add(p); err != nil {
				return Product{}, err
			}
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: id %d", ErrUnknownProduct, productID)
}

func (r *Register) RemoveFromCart(productID int64) {
	r.cart.Remove(productID)
}

// Checkout converts the cart into a sale. With withReceipt set and a
// configured printer, a receipt is printed from the still-unsaved cart first;
// print failure never blocks the sale submission. On success the cart is
// cleared and products, summary, and history are reloaded once each. On
// failure the cart is untouched so the user can retry.
func (r *Register) Checkout(ctx context.Context, withReceipt bool) (CheckoutResult, error) {
	if r.cart.Len() == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}
	if r.processing {
		return CheckoutResult{}, ErrCheckoutInFlight
	}
	r.processing = true
	defer func() { r.processing = false }()

	lines := r.cart.Lines()
	total := r.cart.Total()
	result := CheckoutResult{Total: total}

	if withReceipt && r.printer != nil && r.printer.Enabled() {
		result.PrintNotice = r.printReceipt(ctx, lines, total)
	}

	items := make([]CheckoutItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, CheckoutItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}

	saleID, err := r.api.CreateSale(ctx, total, items)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("create sale: %w", err)
	}

	r.cart.Clear()
	result.SaleID = saleID
	r.logger.Info("sale completed",
		zap.Int64("sale_id", saleID),
		zap.String("total", total.StringFixed(2)),
		zap.Int("lines", len(items)),
	)

	result.ReloadNotice = r.reloadAfterSale(ctx)
	return result, nil
}

// printReceipt prints a synthetic receipt for the pending cart (the sale has
// no id yet). Returns a user-facing notice on failure, empty on success.
func (r *Register) printReceipt(ctx context.Context, lines []CartLine, total decimal.Decimal) string {
	items := make([]printer.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, printer.Item{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
	}

	err := r.printer.Print(ctx, items, total)
	if err == nil {
		return ""
	}

	r.logger.Warn("receipt print failed", zap.Error(err))
	if printer.IsPrinterFailure(err) {
		return "receipt printer failed; the sale will still be recorded"
	}
	return fmt.Sprintf("receipt not printed: %v", err)
}

// reloadAfterSale refreshes catalog, summary, and history. The sale is
// already committed, so failures here are reported but not fatal.
func (r *Register) reloadAfterSale(ctx context.Context) string {
	var stale []string
	if err := r.LoadProducts(ctx); err != nil {
		r.logger.Warn("post-sale reload failed", zap.Error(err))
		stale = append(stale, "products")
	}
	if err := r.LoadSummary(ctx); err != nil {
		r.logger.Warn("post-sale reload failed", zap.Error(err))
		stale = append(stale, "daily summary")
	}
	if err := r.LoadTransactions(ctx); err != nil {
		r.logger.Warn("post-sale reload failed", zap.Error(err))
		stale = append(stale, "history")
	}
	if len(stale) == 0 {
		return ""
	}
	return fmt.Sprintf("sale recorded, but reloading %s failed", strings.Join(stale, ", "))
}
