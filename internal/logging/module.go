package logging

import (
	"context"
	"os"

	"github.com/settatam/shop-sub011/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is an fx.Options group rather than an fx.Module: the logger
// decoration has to sit at root scope so every package sees the
// file-backed logger, not just this one.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(func(cfg config.Config) (*os.File, error) {
			return OpenLogFile(cfg.LogFile)
		}),
		fx.Decorate(func(base *zap.Logger, cfg config.Config, file *os.File) *zap.Logger {
			return AttachFileLogger(base, file, cfg.Debug)
		}),
		fx.Invoke(func(lc fx.Lifecycle, file *os.File) {
			if file == nil {
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					return file.Close()
				},
			})
		}),
	)
}
