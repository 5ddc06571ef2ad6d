package stripepay

import "go.uber.org/fx"

// Module provides the Stripe-backed processor client.
var Module = fx.Options(
	fx.Provide(NewClient),
)
