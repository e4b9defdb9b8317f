package seeder

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/database"
	"github.com/Huulamnguyen/biztime/internal/entity"
)

// Module provides the Seeder to Fx.
var Module = fx.Provide(New)

// Seeder loads the sample companies and invoices for local setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the writer pool.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Companies returns the sample companies.
func Companies() []entity.Company {
	return []entity.Company{
		{Code: "apple", Name: "Apple Computer", Description: "Maker of OSX."},
		{Code: "ibm", Name: "IBM", Description: "Big blue."},
	}
}

// Invoices returns the sample invoices, keyed to Companies.
func Invoices() []entity.Invoice {
	amounts := []struct {
		code string
		amt  int64
	}{
		{"apple", 100},
		{"apple", 200},
		{"apple", 300},
		{"ibm", 400},
	}
	out := make([]entity.Invoice, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, entity.Invoice{CompCode: a.code, Amount: decimal.NewNullDecimal(decimal.NewFromInt(a.amt))})
	}
	return out
}

// Run inserts the sample data in one transaction. Companies that already
// exist are left alone and only receive invoices when newly inserted, so
// running it twice does not duplicate rows.
func (s *Seeder) Run(ctx context.Context) error {
	var companies, invoices int

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		fresh := make(map[string]bool)
		for _, sample := range Companies() {
			company := sample
			res, err := s.ignoreConflict(tx.NewInsert().Model(&company)).Exec(ctx)
			if err != nil {
				return fmt.Errorf("seed company %s: %w", company.Code, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				fresh[company.Code] = true
				companies++
			}
		}

		for _, sample := range Invoices() {
			if !fresh[sample.CompCode] {
				continue
			}
			invoice := sample
			if _, err := tx.NewInsert().Model(&invoice).Exec(ctx); err != nil {
				return fmt.Errorf("seed invoice for %s: %w", invoice.CompCode, err)
			}
			invoices++
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("seed data applied", zap.Int("companies", companies), zap.Int("invoices", invoices))
	return nil
}

func (s *Seeder) ignoreConflict(q *bun.InsertQuery) *bun.InsertQuery {
	if s.db.Dialect().Name() == dialect.MySQL {
		return q.Ignore()
	}
	return q.On("CONFLICT (code) DO NOTHING")
}
