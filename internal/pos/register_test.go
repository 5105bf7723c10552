package pos

import (
	"context"
	"errors"
	"testing"

	"pos_terminal/internal/printer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	products  []Product
	summaries []DailySummary
	sales     []Sale

	listErr        error
	summaryErr     error
	transactionErr error
	createErr      error

	listCalls        int
	summaryCalls     int
	transactionCalls int
	createCalls      int

	lastTotal  decimal.Decimal
	lastItems  []CheckoutItem
	nextSaleID int64
}

func (f *fakeAPI) ListProducts(context.Context) ([]Product, error) {
	f.listCalls++
	return f.products, f.listErr
}

func (f *fakeAPI) CreateSale(_ context.Context, total decimal.Decimal, items []CheckoutItem) (int64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.lastTotal = total
	f.lastItems = items
	return f.nextSaleID, nil
}

func (f *fakeAPI) GetDailySummary(context.Context) ([]DailySummary, error) {
	f.summaryCalls++
	return f.summaries, f.summaryErr
}

func (f *fakeAPI) ListTransactions(context.Context) ([]Sale, error) {
	f.transactionCalls++
	return f.sales, f.transactionErr
}

type fakePrinter struct {
	enabled   bool
	err       error
	calls     int
	lastItems []printer.Item
}

func (p *fakePrinter) Enabled() bool { return p.enabled }

func (p *fakePrinter) Print(_ context.Context, items []printer.Item, _ decimal.Decimal) error {
	p.calls++
	p.lastItems = items
	return p.err
}

func newTestRegister(t *testing.T, f *fakeAPI, p *fakePrinter) *Register {
	t.Helper()
	r := NewRegister(f, p, zap.NewNop())
	require.NoError(t, r.LoadProducts(context.Background()))
	return r
}

func testCatalog() []Product {
	return []Product{
		product(1, "Cola", 1.50, 2),
		product(2, "Chips", 2.25, 4),
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := &fakeAPI{products: testCatalog()}
	r := newTestRegister(t, f, &fakePrinter{})
	loadsBefore := f.listCalls

	_, err := r.Checkout(context.Background(), false)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, f.createCalls)
	assert.Equal(t, loadsBefore, f.listCalls)
	assert.Equal(t, 0, f.summaryCalls)
	assert.Equal(t, 0, f.transactionCalls)
}

func TestCheckoutSuccess(t *testing.T) {
	f := &fakeAPI{
		products:   testCatalog(),
		summaries:  []DailySummary{{Date: "2026-08-31", TotalTransactions: 3, TotalAmount: decimal.NewFromFloat(9.75)}},
		nextSaleID: 12,
	}
	r := newTestRegister(t, f, &fakePrinter{})

	_, err := r.AddToCart(1)
	require.NoError(t, err)
	_, err = r.AddToCart(1)
	require.NoError(t, err)
	_, err = r.AddToCart(2)
	require.NoError(t, err)

	result, err := r.Checkout(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, int64(12), result.SaleID)
	assert.Equal(t, "5.25", result.Total.StringFixed(2))
	assert.Empty(t, result.PrintNotice)
	assert.Empty(t, result.ReloadNotice)

	assert.Equal(t, 1, f.createCalls)
	assert.Equal(t, "5.25", f.lastTotal.StringFixed(2))
	require.Len(t, f.lastItems, 2)
	assert.Equal(t, int64(1), f.lastItems[0].ProductID)
	assert.Equal(t, 2, f.lastItems[0].Quantity)
	assert.Equal(t, "1.50", f.lastItems[0].Price.StringFixed(2))
	assert.Equal(t, int64(2), f.lastItems[1].ProductID)
	assert.Equal(t, 1, f.lastItems[1].Quantity)

	// cart cleared, each collection reloaded exactly once
	assert.Equal(t, 0, len(r.CartLines()))
	assert.Equal(t, 2, f.listCalls)
	assert.Equal(t, 1, f.summaryCalls)
	assert.Equal(t, 1, f.transactionCalls)
	assert.Equal(t, 3, r.Summary().TotalTransactions)
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	f := &fakeAPI{products: testCatalog(), createErr: errors.New("boom")}
	r := newTestRegister(t, f, &fakePrinter{})

	_, err := r.AddToCart(1)
	require.NoError(t, err)

	_, err = r.Checkout(context.Background(), false)
	require.Error(t, err)

	assert.Equal(t, 1, r.CartQuantity(1))
	assert.Equal(t, 1, f.createCalls)
	// no reloads on failure
	assert.Equal(t, 1, f.listCalls)
	assert.Equal(t, 0, f.summaryCalls)
}

func TestCheckoutPrinterFailureDoesNotBlockSale(t *testing.T) {
	f := &fakeAPI{products: testCatalog(), nextSaleID: 7}
	p := &fakePrinter{enabled: true, err: errors.New("printer error: 503 Service Unavailable")}
	r := newTestRegister(t, f, p)

	_, err := r.AddToCart(1)
	require.NoError(t, err)

	result, err := r.Checkout(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 1, f.createCalls)
	assert.Equal(t, int64(7), result.SaleID)
	assert.Contains(t, result.PrintNotice, "printer")
	assert.Equal(t, 0, len(r.CartLines()))
}

func TestCheckoutReceiptContents(t *testing.T) {
	f := &fakeAPI{products: testCatalog(), nextSaleID: 8}
	p := &fakePrinter{enabled: true}
	r := newTestRegister(t, f, p)

	_, err := r.AddToCart(2)
	require.NoError(t, err)

	result, err := r.Checkout(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, result.PrintNotice)

	require.Len(t, p.lastItems, 1)
	assert.Equal(t, int64(2), p.lastItems[0].ProductID)
	assert.Equal(t, "Chips", p.lastItems[0].ProductName)
	assert.Equal(t, 1, p.lastItems[0].Quantity)
}

func TestCheckoutSkipsDisabledPrinter(t *testing.T) {
	f := &fakeAPI{products: testCatalog(), nextSaleID: 9}
	p := &fakePrinter{enabled: false}
	r := newTestRegister(t, f, p)

	_, err := r.AddToCart(1)
	require.NoError(t, err)

	_, err = r.Checkout(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, 1, f.createCalls)
}

func TestCheckoutReloadFailureIsNonFatal(t *testing.T) {
	f := &fakeAPI{products: testCatalog(), nextSaleID: 3}
	r := newTestRegister(t, f, &fakePrinter{})

	_, err := r.AddToCart(1)
	require.NoError(t, err)

	f.listErr = errors.New("backend down")
	f.summaryErr = errors.New("backend down")

	result, err := r.Checkout(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.SaleID)
	assert.Contains(t, result.ReloadNotice, "products")
	assert.Contains(t, result.ReloadNotice, "daily summary")
	assert.Equal(t, 0, len(r.CartLines()))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	f := &fakeAPI{products: testCatalog()}
	r := newTestRegister(t, f, &fakePrinter{})

	_, err := r.AddToCart(99)
	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.Equal(t, 0, len(r.CartLines()))
}

func TestAddToCartStockGate(t *testing.T) {
	f := &fakeAPI{products: testCatalog()}
	r := newTestRegister(t, f, &fakePrinter{})

	for i := 0; i < 2; i++ {
		_, err := r.AddToCart(1)
		require.NoError(t, err)
	}
	_, err := r.AddToCart(1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, r.CartQuantity(1))
}

func TestLoadSummaryZeroDefault(t *testing.T) {
	f := &fakeAPI{products: testCatalog()}
	r := newTestRegister(t, f, &fakePrinter{})

	require.NoError(t, r.LoadSummary(context.Background()))
	assert.Equal(t, 0, r.Summary().TotalTransactions)
	assert.True(t, r.Summary().TotalAmount.IsZero())
}

func TestLoadFailuresLeaveStateUntouched(t *testing.T) {
	f := &fakeAPI{products: testCatalog()}
	r := newTestRegister(t, f, &fakePrinter{})
	require.Len(t, r.Catalog(), 2)

	f.listErr = errors.New("backend down")
	require.Error(t, r.LoadProducts(context.Background()))
	assert.Len(t, r.Catalog(), 2)

	f.transactionErr = errors.New("backend down")
	require.Error(t, r.LoadTransactions(context.Background()))
	assert.Empty(t, r.Transactions())
}
