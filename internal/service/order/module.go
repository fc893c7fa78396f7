package order

import "go.uber.org/fx"

// Module provides the order Service built from the repository, cache,
// publisher and order metrics in the graph.
var Module = fx.Module("orders_service", fx.Provide(NewService))
