package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos_terminal/internal/api"
	"pos_terminal/internal/pos"

	"github.com/shopspring/decimal"
)

func (s *session) writeProducts(products []pos.Product) {
	if s.opts.JSON {
		s.writeJSON(map[string]any{"products": products})
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products found")
		return
	}
	for i, p := range products {
		fmt.Fprintf(s.out, "%d) %s (id=%d, price=%s, stock=%d", i+1, p.Name, p.ID, money(p.Price), p.Stock)
		if qty := s.register.CartQuantity(p.ID); qty > 0 {
			fmt.Fprintf(s.out, ", in cart=%d", qty)
		}
		fmt.Fprintln(s.out, ")")
	}
}

func (s *session) writeCart() {
	lines := s.register.CartLines()
	if s.opts.JSON {
		s.writeJSON(map[string]any{"lines": lines, "total": s.register.CartTotal()})
		return
	}
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "Cart is empty")
		return
	}
	fmt.Fprintln(s.out, "Shopping cart:")
	for _, line := range lines {
		fmt.Fprintf(s.out, "- %s  %s x %d = %s\n",
			line.Product.Name, money(line.Product.Price), line.Quantity, money(line.Subtotal()))
	}
	fmt.Fprintf(s.out, "Total: %s\n", money(s.register.CartTotal()))
}

func (s *session) writeCheckout(result pos.CheckoutResult) {
	if s.opts.JSON {
		s.writeJSON(map[string]any{
			"sale_id":       result.SaleID,
			"total":         result.Total,
			"print_notice":  result.PrintNotice,
			"reload_notice": result.ReloadNotice,
		})
		return
	}
	fmt.Fprintf(s.out, "Sale #%d completed successfully! Total: %s\n", result.SaleID, money(result.Total))
	if result.PrintNotice != "" {
		fmt.Fprintf(s.out, "Note: %s\n", result.PrintNotice)
	}
	if result.ReloadNotice != "" {
		fmt.Fprintf(s.out, "Note: %s\n", result.ReloadNotice)
	}
}

func (s *session) writeSummary() {
	summary := s.register.Summary()
	if s.opts.JSON {
		s.writeJSON(summary)
		return
	}
	label := "Today"
	if summary.Date != "" {
		label = fmt.Sprintf("Today (%s)", formatDate(summary.Date))
	}
	fmt.Fprintf(s.out, "%s: %d transactions, %s total\n",
		label, summary.TotalTransactions, money(summary.TotalAmount))
}

func (s *session) writeHistory() {
	sales := s.register.Transactions()
	if s.opts.JSON {
		s.writeJSON(map[string]any{"transactions": sales})
		return
	}
	if len(sales) == 0 {
		fmt.Fprintln(s.out, "No transactions found")
		return
	}
	for _, sale := range sales {
		marker := "+"
		if s.expanded[sale.ID] {
			marker = "-"
		}
		fmt.Fprintf(s.out, "[%s] Transaction #%d  %s  %s\n",
			marker, sale.ID, formatDate(sale.CreatedAt), money(sale.Total))
		if !s.expanded[sale.ID] {
			continue
		}
		fmt.Fprintf(s.out, "    %-24s %5s %10s %10s\n", "Item", "Qty", "Price", "Total")
		for _, item := range sale.Items {
			lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			fmt.Fprintf(s.out, "    %-24s %5d %10s %10s\n",
				item.ProductName, item.Quantity, money(item.Price), money(lineTotal))
		}
	}
}

func (s *session) writeJSON(payload any) {
	enc := json.NewEncoder(s.out)
	if err := enc.Encode(payload); err != nil {
		s.notice("Failed to encode output: %s", err)
	}
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, pos.ErrEmptyCart):
		return "Cart is empty"
	case errors.Is(err, pos.ErrInsufficientStock):
		return "Not enough stock"
	case errors.Is(err, pos.ErrUnknownProduct):
		return "Unknown product, check 'products' for valid ids"
	case errors.Is(err, pos.ErrCheckoutInFlight):
		return "A checkout is already in progress"
	case errors.Is(err, api.ErrUnavailable):
		return "POS backend is unreachable, check -api-url"
	default:
		if err == nil {
			return ""
		}
		return err.Error()
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatDate(value string) string {
	if value == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02 15:04")
		}
	}
	return value
}
