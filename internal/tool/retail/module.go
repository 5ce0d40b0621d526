package retail

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("retail",
		fx.Invoke(Register),
	)
}
