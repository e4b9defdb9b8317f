package invoice

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Huulamnguyen/biztime/internal/database"
	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/repository"
)

var repoTracer = otel.Tracer("github.com/Huulamnguyen/biztime/repository/invoice")

// Repository encapsulates read/write access for invoices.
type Repository struct {
	conns *database.Connections
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{conns: conns}
}

// List returns every invoice projected to id and comp_code.
func (r *Repository) List(ctx context.Context) ([]entity.Invoice, error) {
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.List")
	defer span.End()

	invoices := make([]entity.Invoice, 0)
	err := r.conns.Read(ctx).NewSelect().
		Model(&invoices).
		Column("id", "comp_code").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return invoices, nil
}

// ListByCompany returns the full rows of every invoice billed to code.
func (r *Repository) ListByCompany(ctx context.Context, code string) ([]entity.Invoice, error) {
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.ListByCompany", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	invoices := make([]entity.Invoice, 0)
	err := r.conns.Read(ctx).NewSelect().
		Model(&invoices).
		Where("comp_code = ?", code).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return invoices, nil
}

// GetByID fetches an invoice by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.GetByID", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	invoice := new(entity.Invoice)
	err := r.conns.Read(ctx).NewSelect().Model(invoice).Where("id = ?", id).Scan(ctx)
	if err = repository.NotFoundIfNoRows(err); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return invoice, nil
}

// Create inserts the invoice; id, paid and the dates come back from the store.
func (r *Repository) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice == nil {
		return errors.New("nil invoice")
	}
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.Create", trace.WithAttributes(attribute.String("company.code", invoice.CompCode)))
	defer span.End()

	db := r.conns.Write(ctx)
	q := db.NewInsert().Model(invoice)
	returning := database.SupportsReturning(db.Dialect())
	if returning {
		q = q.Returning("*")
	}
	if _, err := q.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	if returning {
		return nil
	}
	// Without RETURNING only the generated id is known; load the defaults.
	return db.NewSelect().Model(invoice).WherePK().Scan(ctx)
}

// UpdateAmount sets amt on the invoice with the given id and returns the
// updated row. Other columns are left untouched.
func (r *Repository) UpdateAmount(ctx context.Context, id int64, amount decimal.NullDecimal) (*entity.Invoice, error) {
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.UpdateAmount", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	db := r.conns.Write(ctx)
	invoice := &entity.Invoice{ID: id, Amount: amount}
	q := db.NewUpdate().
		Model(invoice).
		Column("amt").
		Where("id = ?", id)

	if !database.SupportsReturning(db.Dialect()) {
		if _, err := q.Exec(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "update failed")
			return nil, err
		}
		err := db.NewSelect().Model(invoice).Where("id = ?", id).Scan(ctx)
		if err = repository.NotFoundIfNoRows(err); err != nil {
			return nil, err
		}
		return invoice, nil
	}

	res, err := q.Returning("*").Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		span.SetStatus(codes.Error, "not found")
		return nil, repository.ErrNotFound
	}
	return invoice, nil
}

// Delete removes the invoice with the given id and reports whether a row
// was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "InvoiceRepository.Delete", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	res, err := r.conns.Write(ctx).NewDelete().
		Model((*entity.Invoice)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
