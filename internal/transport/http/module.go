package http

import (
	"go.uber.org/fx"

	companytransport "github.com/Huulamnguyen/biztime/internal/transport/http/company"
	invoicetransport "github.com/Huulamnguyen/biztime/internal/transport/http/invoice"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	companytransport.Module,
	invoicetransport.Module,
)
