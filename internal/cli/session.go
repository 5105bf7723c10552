package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pos_terminal/internal/pos"

	"go.uber.org/zap"
)

// session drives one terminal session over a register. expanded holds the
// sale ids whose line items are shown in the history view; toggling never
// refetches, the detail is already in the loaded sales.
type session struct {
	register *pos.Register
	opts     *Options
	logger   *zap.Logger
	out      io.Writer
	expanded map[int64]bool
}

func newSession(register *pos.Register, opts *Options, logger *zap.Logger) *session {
	return &session{
		register: register,
		opts:     opts,
		logger:   logger,
		out:      os.Stdout,
		expanded: make(map[int64]bool),
	}
}

func (s *session) runOneShot(ctx context.Context) error {
	switch s.opts.Command {
	case "products":
		if err := s.register.LoadProducts(ctx); err != nil {
			return err
		}
		s.writeProducts(pos.Filter(s.register.Catalog(), s.opts.Query))
		return nil
	case "summary":
		if err := s.register.LoadSummary(ctx); err != nil {
			return err
		}
		s.writeSummary()
		return nil
	case "history":
		if err := s.register.LoadTransactions(ctx); err != nil {
			return err
		}
		s.writeHistory()
		return nil
	default:
		return fmt.Errorf("unknown command %q", s.opts.Command)
	}
}

func (s *session) runREPL(ctx context.Context) error {
	if err := s.register.LoadProducts(ctx); err != nil {
		s.notice("Failed to load products: %s", friendlyError(err))
	}
	if err := s.register.LoadSummary(ctx); err != nil {
		s.notice("Failed to load daily summary: %s", friendlyError(err))
	}

	fmt.Fprintln(s.out, "POS terminal (type 'help' for commands, 'exit' to quit)")
	reader := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprint(s.out, "> ")
		if !reader.Scan() {
			return reader.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		if done := s.dispatch(ctx, line); done {
			return nil
		}
	}
}

func (s *session) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	s.logger.Debug("command received", zap.String("command", command), zap.Strings("args", args))

	switch command {
	case "exit", "quit":
		return true
	case "help":
		s.writeHelp()
	case "products":
		s.cmdProducts(strings.Join(args, " "))
	case "add":
		s.cmdAdd(args)
	case "remove":
		s.cmdRemove(args)
	case "cart":
		s.writeCart()
	case "checkout":
		s.cmdCheckout(ctx)
	case "summary":
		s.writeSummary()
	case "history":
		s.cmdHistory(ctx)
	case "expand":
		s.cmdExpand(args)
	case "reload":
		s.cmdReload(ctx)
	default:
		s.notice("Unknown command %q, type 'help'", command)
	}
	return false
}

func (s *session) cmdProducts(query string) {
	s.writeProducts(pos.Filter(s.register.Catalog(), query))
}

func (s *session) cmdAdd(args []string) {
	id, ok := s.parseProductID(args)
	if !ok {
		return
	}
	product, err := s.register.AddToCart(id)
	if err != nil {
		s.notice("%s", friendlyError(err))
		return
	}
	s.notice("Added %s to cart", product.Name)
}

func (s *session) cmdRemove(args []string) {
	id, ok := s.parseProductID(args)
	if !ok {
		return
	}
	s.register.RemoveFromCart(id)
	s.writeCart()
}

func (s *session) cmdCheckout(ctx context.Context) {
	result, err := s.register.Checkout(ctx, s.opts.Receipt)
	if err != nil {
		s.notice("Failed to process sale: %s", friendlyError(err))
		return
	}
	s.writeCheckout(result)
}

func (s *session) cmdHistory(ctx context.Context) {
	if err := s.register.LoadTransactions(ctx); err != nil {
		s.notice("Failed to load transactions: %s", friendlyError(err))
		return
	}
	s.writeHistory()
}

// cmdExpand toggles line-item detail for one sale in the history view.
func (s *session) cmdExpand(args []string) {
	if len(args) != 1 {
		s.notice("Usage: expand <sale id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.notice("Invalid sale id %q", args[0])
		return
	}
	if s.expanded[id] {
		delete(s.expanded, id)
	} else {
		s.expanded[id] = true
	}
	s.writeHistory()
}

func (s *session) cmdReload(ctx context.Context) {
	if err := s.register.LoadProducts(ctx); err != nil {
		s.notice("Failed to load products: %s", friendlyError(err))
		return
	}
	if err := s.register.LoadSummary(ctx); err != nil {
		s.notice("Failed to load daily summary: %s", friendlyError(err))
		return
	}
	s.notice("Catalog and daily summary reloaded")
}

func (s *session) parseProductID(args []string) (int64, bool) {
	if len(args) != 1 {
		s.notice("Usage: %s <product id>", "add|remove")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.notice("Invalid product id %q", args[0])
		return 0, false
	}
	return id, true
}

func (s *session) notice(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func (s *session) writeHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  products [query]   list catalog, optionally filtered by name")
	fmt.Fprintln(s.out, "  add <id>           add one unit of a product to the cart")
	fmt.Fprintln(s.out, "  remove <id>        remove one unit from the cart")
	fmt.Fprintln(s.out, "  cart               show the cart and its total")
	fmt.Fprintln(s.out, "  checkout           convert the cart into a sale")
	fmt.Fprintln(s.out, "  summary            show today's totals")
	fmt.Fprintln(s.out, "  history            list past transactions")
	fmt.Fprintln(s.out, "  expand <sale id>   toggle line items for a transaction")
	fmt.Fprintln(s.out, "  reload             refetch catalog and daily summary")
	fmt.Fprintln(s.out, "  exit               quit")
}
