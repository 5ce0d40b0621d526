package assist

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("assist",
		fx.Provide(NewAssistant),
	)
}
