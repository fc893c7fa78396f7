package http

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/hiretrack/internal/transport/http/order"
)

// Module mounts every HTTP route group.
var Module = fx.Options(order.Module)
