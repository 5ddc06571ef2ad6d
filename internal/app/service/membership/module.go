package membership

import "go.uber.org/fx"

// Module exposes the membership state machine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
