package company

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/dto"
	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/event"
	"github.com/Huulamnguyen/biztime/internal/repository"
	"github.com/Huulamnguyen/biztime/pkg/errorbank"
)

var (
	serviceTracer = otel.Tracer("github.com/Huulamnguyen/biztime/service/company")
	serviceMeter  = otel.Meter("github.com/Huulamnguyen/biztime/service/company")
)

// Repository is the company storage the service depends on.
type Repository interface {
	List(ctx context.Context) ([]entity.Company, error)
	GetByCode(ctx context.Context, code string) (*entity.Company, error)
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, code string) (bool, error)
}

// InvoiceReader lists the invoices billed to a company.
type InvoiceReader interface {
	ListByCompany(ctx context.Context, code string) ([]entity.Invoice, error)
}

// Snapshotter groups reads so they observe one consistent state.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Detail is a company with every invoice billed to it.
type Detail struct {
	Company  *entity.Company
	Invoices []entity.Invoice
}

// Service implements the company operations.
type Service struct {
	repo     Repository
	invoices InvoiceReader
	snapshot Snapshotter
	events   *event.Emitter
	logger   *zap.Logger
	writes   metric.Int64Counter
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Invoices   InvoiceReader
	Snapshot   Snapshotter
	Events     *event.Emitter
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) (*Service, error) {
	writes, err := serviceMeter.Int64Counter("biztime.company.writes",
		metric.WithDescription("Successful company writes by operation"))
	if err != nil {
		return nil, err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     p.Repository,
		invoices: p.Invoices,
		snapshot: p.Snapshot,
		events:   p.Events,
		logger:   logger,
		writes:   writes,
	}, nil
}

// List returns all companies (code and name only).
func (s *Service) List(ctx context.Context) ([]entity.Company, error) {
	ctx, span := serviceTracer.Start(ctx, "CompanyService.List")
	defer span.End()

	companies, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal(span, "failed to list companies", err)
	}
	return companies, nil
}

// Get loads a company and its invoices. Both reads share one snapshot when
// the store is configured for it.
func (s *Service) Get(ctx context.Context, code string) (*Detail, error) {
	ctx, span := serviceTracer.Start(ctx, "CompanyService.Get", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	var detail Detail
	err := s.snapshot.ReadSnapshot(ctx, func(ctx context.Context) error {
		company, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		invoices, err := s.invoices.ListByCompany(ctx, company.Code)
		if err != nil {
			return err
		}
		detail = Detail{Company: company, Invoices: invoices}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("Company not found for code of %s", code), code)
	}
	if err != nil {
		return nil, s.internal(span, "failed to load company", err)
	}
	return &detail, nil
}

// Create inserts a new company. Duplicate codes are rejected by the store.
func (s *Service) Create(ctx context.Context, company *entity.Company) error {
	if company == nil {
		return errorbank.BadRequest("company payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "CompanyService.Create", trace.WithAttributes(attribute.String("company.code", company.Code)))
	defer span.End()

	if err := s.repo.Create(ctx, company); err != nil {
		return s.internal(span, "failed to create company", err)
	}

	s.recordWrite(ctx, "create")
	s.events.Emit(ctx, event.CompanyCreated, company.Code, dto.NewCompanyResponse(company))
	return nil
}

// Update replaces name and description of an existing company.
func (s *Service) Update(ctx context.Context, company *entity.Company) error {
	if company == nil {
		return errorbank.BadRequest("company payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "CompanyService.Update", trace.WithAttributes(attribute.String("company.code", company.Code)))
	defer span.End()

	err := s.repo.Update(ctx, company)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(fmt.Sprintf("Can't update company with code of %s", company.Code), company.Code)
	}
	if err != nil {
		return s.internal(span, "failed to update company", err)
	}

	s.recordWrite(ctx, "update")
	s.events.Emit(ctx, event.CompanyUpdated, company.Code, dto.NewCompanyResponse(company))
	return nil
}

// Delete removes a company. Deleting an unknown code succeeds.
func (s *Service) Delete(ctx context.Context, code string) error {
	ctx, span := serviceTracer.Start(ctx, "CompanyService.Delete", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, code)
	if err != nil {
		return s.internal(span, "failed to delete company", err)
	}
	if !deleted {
		s.logger.Debug("company delete matched no rows", zap.String("code", code))
		return nil
	}

	s.recordWrite(ctx, "delete")
	s.events.Emit(ctx, event.CompanyDeleted, code, nil)
	return nil
}

func (s *Service) recordWrite(ctx context.Context, op string) {
	s.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (s *Service) internal(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return errorbank.Internal(msg, errorbank.WithCause(err))
}

func notFound(msg, code string) error {
	return errorbank.NotFound(msg, errorbank.WithDetail("code", code))
}
