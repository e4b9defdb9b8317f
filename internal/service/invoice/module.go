package invoice

import (
	"go.uber.org/fx"

	"github.com/Huulamnguyen/biztime/internal/database"
	companyrepo "github.com/Huulamnguyen/biztime/internal/repository/company"
	invoicerepo "github.com/Huulamnguyen/biztime/internal/repository/invoice"
)

// Module provides the invoice service and binds its collaborators to the
// bun repositories.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(invoicerepo.NewRepository, fx.As(new(Repository))),
		fx.Annotate(companyrepo.NewRepository, fx.As(new(CompanyReader))),
		func(conns *database.Connections) Snapshotter { return conns },
		NewService,
	),
)
