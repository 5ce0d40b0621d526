package suggest

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("suggest",
		fx.Provide(NewService),
	)
}
