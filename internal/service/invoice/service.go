package invoice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
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
	serviceTracer = otel.Tracer("github.com/Huulamnguyen/biztime/service/invoice")
	serviceMeter  = otel.Meter("github.com/Huulamnguyen/biztime/service/invoice")
)

// Repository is the invoice storage the service depends on.
type Repository interface {
	List(ctx context.Context) ([]entity.Invoice, error)
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	UpdateAmount(ctx context.Context, id int64, amount decimal.NullDecimal) (*entity.Invoice, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CompanyReader resolves the company an invoice is billed to.
type CompanyReader interface {
	GetByCode(ctx context.Context, code string) (*entity.Company, error)
}

// Snapshotter groups reads so they observe one consistent state.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Detail is an invoice with its owning company. Company is nil when the
// company row is gone.
type Detail struct {
	Invoice *entity.Invoice
	Company *entity.Company
}

// Service implements the invoice operations.
type Service struct {
	repo      Repository
	companies CompanyReader
	snapshot  Snapshotter
	events    *event.Emitter
	logger    *zap.Logger
	writes    metric.Int64Counter
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Companies  CompanyReader
	Snapshot   Snapshotter
	Events     *event.Emitter
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) (*Service, error) {
	writes, err := serviceMeter.Int64Counter("biztime.invoice.writes",
		metric.WithDescription("Successful invoice writes by operation"))
	if err != nil {
		return nil, err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      p.Repository,
		companies: p.Companies,
		snapshot:  p.Snapshot,
		events:    p.Events,
		logger:    logger,
		writes:    writes,
	}, nil
}

// List returns all invoices (id and comp_code only).
func (s *Service) List(ctx context.Context) ([]entity.Invoice, error) {
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.List")
	defer span.End()

	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal(span, "failed to list invoices", err)
	}
	return invoices, nil
}

// Get loads an invoice and the company it belongs to.
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.Get", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	var detail Detail
	err := s.snapshot.ReadSnapshot(ctx, func(ctx context.Context) error {
		invoice, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		company, err := s.companies.GetByCode(ctx, invoice.CompCode)
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("invoice references missing company",
				zap.Int64("id", id), zap.String("comp_code", invoice.CompCode))
		} else if err != nil {
			return err
		}
		detail = Detail{Invoice: invoice, Company: company}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("Invoice not found for id of %d", id), id)
	}
	if err != nil {
		return nil, s.internal(span, "failed to load invoice", err)
	}
	return &detail, nil
}

// Create inserts a new invoice. Unknown company codes are rejected by the
// store's foreign key.
func (s *Service) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice == nil {
		return errorbank.BadRequest("invoice payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.Create", trace.WithAttributes(attribute.String("company.code", invoice.CompCode)))
	defer span.End()

	if err := s.repo.Create(ctx, invoice); err != nil {
		return s.internal(span, "failed to create invoice", err)
	}

	s.recordWrite(ctx, "create")
	s.events.Emit(ctx, event.InvoiceCreated, strconv.FormatInt(invoice.ID, 10), dto.NewInvoiceResponse(invoice))
	return nil
}

// UpdateAmount changes amt on an existing invoice and returns the stored row.
// An invalid amount is passed through as NULL.
func (s *Service) UpdateAmount(ctx context.Context, id int64, amount decimal.NullDecimal) (*entity.Invoice, error) {
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.UpdateAmount", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	invoice, err := s.repo.UpdateAmount(ctx, id, amount)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(fmt.Sprintf("Can't update invoice with id of %d", id), id)
	}
	if err != nil {
		return nil, s.internal(span, "failed to update invoice", err)
	}

	s.recordWrite(ctx, "update")
	s.events.Emit(ctx, event.InvoiceUpdated, strconv.FormatInt(id, 10), dto.NewInvoiceResponse(invoice))
	return invoice, nil
}

// Delete removes an invoice. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.Delete", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.internal(span, "failed to delete invoice", err)
	}
	if !deleted {
		s.logger.Debug("invoice delete matched no rows", zap.Int64("id", id))
		return nil
	}

	s.recordWrite(ctx, "delete")
	s.events.Emit(ctx, event.InvoiceDeleted, strconv.FormatInt(id, 10), nil)
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

func notFound(msg string, id int64) error {
	return errorbank.NotFound(msg, errorbank.WithDetail("id", id))
}
