package app

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/config"
	"github.com/Huulamnguyen/biztime/internal/database"
	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/logger"
	"github.com/Huulamnguyen/biztime/internal/messaging"
	"github.com/Huulamnguyen/biztime/internal/observability"
	"github.com/Huulamnguyen/biztime/internal/ratelimit"
	grpcserver "github.com/Huulamnguyen/biztime/internal/server/grpc"
	httpserver "github.com/Huulamnguyen/biztime/internal/server/http"
	servicecompany "github.com/Huulamnguyen/biztime/internal/service/company"
	serviceinvoice "github.com/Huulamnguyen/biztime/internal/service/invoice"
	transporthttp "github.com/Huulamnguyen/biztime/internal/transport/http"
	"github.com/Huulamnguyen/biztime/internal/worker"
	workeraudit "github.com/Huulamnguyen/biztime/internal/worker/audit"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	logger.Module,
	fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: l.Named("fx")}
	}),
	database.Module,
	messaging.Module,
	observability.Module,
	fx.Invoke(func(*observability.Manager) {}),
	event.Module,
	servicecompany.Module,
	serviceinvoice.Module,
)

// HTTP serves the REST API, plus the gRPC health endpoint, on top of the
// core modules.
var HTTP = fx.Options(
	Core,
	ratelimit.Module,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker consumes domain events.
var Worker = fx.Options(
	Core,
	worker.Module,
	workeraudit.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
