package tool

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("tool",
		fx.Provide(
			NewRegistry,
			NewDispatcher,
		),
	)
}
