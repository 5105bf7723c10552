package pos

import "github.com/shopspring/decimal"

// Product is a read-only snapshot from the remote catalog. CreatedAt is kept
// as the wire string; display code parses it best-effort.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type SaleItem struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Sale struct {
	ID        int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
	Items     []SaleItem      `json:"items"`
}

type DailySummary struct {
	Date              string          `json:"date"`
	TotalTransactions int             `json:"total_transactions"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// CheckoutItem is one line of a sale-creation request.
type CheckoutItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
