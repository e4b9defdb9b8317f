package testutil

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/presentation/http/response"
	companysvc "github.com/Huulamnguyen/biztime/internal/service/company"
	invoicesvc "github.com/Huulamnguyen/biztime/internal/service/invoice"
)

// App bundles the services and Echo instance used by handler tests.
type App struct {
	Echo      *echo.Echo
	DB        *InMemoryDB
	Publisher *InMemoryPublisher
	Companies *companysvc.Service
	Invoices  *invoicesvc.Service
}

// NewApp wires both services over a fresh in-memory database. Routes are
// registered by the caller.
func NewApp(t *testing.T) *App {
	t.Helper()

	logger := zap.NewNop()
	db := NewInMemoryDB()
	pub := NewInMemoryPublisher("biztime.events")
	emitter := event.NewEmitter(pub, logger)

	companies, err := companysvc.NewService(companysvc.Params{
		Repository: db.Companies(),
		Invoices:   db.Invoices(),
		Snapshot:   db,
		Events:     emitter,
		Logger:     logger,
	})
	require.NoError(t, err)

	invoices, err := invoicesvc.NewService(invoicesvc.Params{
		Repository: db.Invoices(),
		Companies:  db.Companies(),
		Snapshot:   db,
		Events:     emitter,
		Logger:     logger,
	})
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler(logger)

	return &App{Echo: e, DB: db, Publisher: pub, Companies: companies, Invoices: invoices}
}
