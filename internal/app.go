package internal

import (
	"context"

	"pos_terminal/internal/api"
	"pos_terminal/internal/cli"
	"pos_terminal/internal/config"
	"pos_terminal/internal/logging"
	"pos_terminal/internal/pos"
	"pos_terminal/internal/printer"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		api.Module(),
		printer.Module(),
		pos.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(ctx)
	}()

	return runner.Execute()
}
