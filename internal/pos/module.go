package pos

import (
	"pos_terminal/internal/printer"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"pos",
		fx.Provide(func(c *printer.Client) ReceiptPrinter { return c }),
		fx.Provide(NewRegister),
	)
}
