package api

import (
	"pos_terminal/internal/pos"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"api",
		fx.Provide(NewClient),
		fx.Provide(func(c *Client) pos.SalesAPI { return c }),
	)
}
