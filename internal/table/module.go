package table

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("table",
		fx.Provide(NewService),
	)
}
