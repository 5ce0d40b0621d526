package metals

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"metals",
		fx.Provide(NewService),
	)
}
