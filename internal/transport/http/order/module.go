package order

import "go.uber.org/fx"

// Module mounts the /orders routes on the shared Echo router.
var Module = fx.Module("orders_http",
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
