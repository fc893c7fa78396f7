package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/hiretrack/internal/cache"
	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/database"
	"github.com/Additional-Code/hiretrack/internal/jobs"
	"github.com/Additional-Code/hiretrack/internal/logger"
	"github.com/Additional-Code/hiretrack/internal/messaging"
	"github.com/Additional-Code/hiretrack/internal/observability"
	repositoryorder "github.com/Additional-Code/hiretrack/internal/repository/order"
	grpcserver "github.com/Additional-Code/hiretrack/internal/server/grpc"
	httpserver "github.com/Additional-Code/hiretrack/internal/server/http"
	serviceorder "github.com/Additional-Code/hiretrack/internal/service/order"
	transporthttp "github.com/Additional-Code/hiretrack/internal/transport/http"
	"github.com/Additional-Code/hiretrack/internal/worker"
	workerorder "github.com/Additional-Code/hiretrack/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP and gRPC servers on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background event processing and scheduled jobs.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
	jobs.Module,
)

// Module is the default application wiring (HTTP and gRPC).
var Module = HTTP
