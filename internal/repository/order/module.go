package order

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the order repository to Fx and creates its table on start.
var Module = fx.Options(
	fx.Provide(NewRepository),
	fx.Invoke(func(lc fx.Lifecycle, r *Repository) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return r.InitTable(ctx)
			},
		})
	}),
)
