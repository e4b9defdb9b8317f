package company

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Huulamnguyen/biztime/internal/database"
	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/repository"
)

var repoTracer = otel.Tracer("github.com/Huulamnguyen/biztime/repository/company")

// Repository encapsulates read/write access for companies.
type Repository struct {
	conns *database.Connections
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{conns: conns}
}

// List returns every company projected to code and name.
func (r *Repository) List(ctx context.Context) ([]entity.Company, error) {
	ctx, span := repoTracer.Start(ctx, "CompanyRepository.List")
	defer span.End()

	companies := make([]entity.Company, 0)
	err := r.conns.Read(ctx).NewSelect().
		Model(&companies).
		Column("code", "name").
		OrderExpr("code ASC").
		Scan(ctx)
	if err != nil {
		fail(span, err, "select failed")
		return nil, err
	}
	return companies, nil
}

// GetByCode fetches a company by its exact code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	ctx, span := repoTracer.Start(ctx, "CompanyRepository.GetByCode", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	company := new(entity.Company)
	err := r.conns.Read(ctx).NewSelect().Model(company).Where("code = ?", code).Scan(ctx)
	if err = repository.NotFoundIfNoRows(err); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "not found")
			return nil, err
		}
		fail(span, err, "select failed")
		return nil, err
	}
	return company, nil
}

// Create inserts the company and refreshes it with the stored row.
func (r *Repository) Create(ctx context.Context, company *entity.Company) error {
	if company == nil {
		return errors.New("nil company")
	}
	ctx, span := repoTracer.Start(ctx, "CompanyRepository.Create", trace.WithAttributes(attribute.String("company.code", company.Code)))
	defer span.End()

	db := r.conns.Write(ctx)
	q := db.NewInsert().Model(company)
	if database.SupportsReturning(db.Dialect()) {
		q = q.Returning("*")
	}
	if _, err := q.Exec(ctx); err != nil {
		fail(span, err, "insert failed")
		return err
	}
	return nil
}

// Update overwrites name and description of the company matching
// company.Code. It returns ErrNotFound when no row matched.
func (r *Repository) Update(ctx context.Context, company *entity.Company) error {
	if company == nil {
		return errors.New("nil company")
	}
	ctx, span := repoTracer.Start(ctx, "CompanyRepository.Update", trace.WithAttributes(attribute.String("company.code", company.Code)))
	defer span.End()

	db := r.conns.Write(ctx)
	q := db.NewUpdate().
		Model(company).
		Column("name", "description").
		Where("code = ?", company.Code)

	if !database.SupportsReturning(db.Dialect()) {
		if _, err := q.Exec(ctx); err != nil {
			fail(span, err, "update failed")
			return err
		}
		// MySQL reports zero affected rows for no-op updates, so existence is
		// decided by reading the row back.
		err := db.NewSelect().Model(company).Where("code = ?", company.Code).Scan(ctx)
		return repository.NotFoundIfNoRows(err)
	}

	res, err := q.Returning("*").Exec(ctx)
	if err != nil {
		fail(span, err, "update failed")
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		fail(span, err, "rows affected")
		return err
	}
	if n == 0 {
		span.SetStatus(codes.Error, "not found")
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the company with the given code. It reports whether a row
// was removed; a missing code is not an error.
func (r *Repository) Delete(ctx context.Context, code string) (bool, error) {
	ctx, span := repoTracer.Start(ctx, "CompanyRepository.Delete", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	res, err := r.conns.Write(ctx).NewDelete().
		Model((*entity.Company)(nil)).
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		fail(span, err, "delete failed")
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func fail(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
