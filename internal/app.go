package internal

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/settatam/shop-sub011/internal/api"
	"github.com/settatam/shop-sub011/internal/assist"
	"github.com/settatam/shop-sub011/internal/cli"
	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/logging"
	"github.com/settatam/shop-sub011/internal/metals"
	"github.com/settatam/shop-sub011/internal/store"
	"github.com/settatam/shop-sub011/internal/suggest"
	"github.com/settatam/shop-sub011/internal/table"
	"github.com/settatam/shop-sub011/internal/tool"
	"github.com/settatam/shop-sub011/internal/tool/retail"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

// Run parses flags, assembles the dependency graph and hands control to the
// CLI runner. Flags parse before fx so -db, -debug and friends can reshape
// the configuration every module sees.
func Run() error {
	opts, err := cli.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	var runner *cli.Runner

	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		fx.Supply(opts),
		fx.Decorate(func(cfg config.Config, opts cli.Options) config.Config {
			return opts.Apply(cfg)
		}),
		logging.Module(),
		store.Module(),
		metals.Module(),
		llm.Module(),
		tool.Module(),
		retail.Module(),
		suggest.Module(),
		assist.Module(),
		table.Module(),
		api.Module(),
		cli.Module(),
		fx.Populate(&runner),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	return runner.Execute(ctx)
}
