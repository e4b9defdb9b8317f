package invoice

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Huulamnguyen/biztime/internal/dto"
	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/presentation/http/response"
	service "github.com/Huulamnguyen/biztime/internal/service/invoice"
	"github.com/Huulamnguyen/biztime/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Huulamnguyen/biztime/transport/http/invoice")

// Handler exposes invoice endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an invoice Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/invoices")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	ctx, span := httpTracer.Start(c.Request().Context(), "invoices.list")
	defer span.End()

	invoices, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return response.New(c).WithEnvelope("invoices", dto.NewInvoiceSummaries(invoices)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "invoices.getByID", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	detail, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return response.New(c).
		WithEnvelope("invoice", dto.NewInvoiceDetailResponse(detail.Invoice, detail.Company)).
		Build()
}

func (h *Handler) create(c echo.Context) error {
	var payload dto.CreateInvoiceRequest
	if err := c.Bind(&payload); err != nil {
		return errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "invoices.create", trace.WithAttributes(attribute.String("company.code", payload.CompCode)))
	defer span.End()

	invoice := &entity.Invoice{
		CompCode: payload.CompCode,
		Amount:   payload.Amount,
	}
	if err := h.svc.Create(ctx, invoice); err != nil {
		return err
	}
	return response.New(c).
		WithStatus(http.StatusCreated).
		WithEnvelope("invoice", dto.NewInvoiceResponse(invoice)).
		Build()
}

func (h *Handler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var payload dto.UpdateInvoiceRequest
	if err := c.Bind(&payload); err != nil {
		return errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "invoices.update", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	invoice, err := h.svc.UpdateAmount(ctx, id, payload.Amount)
	if err != nil {
		return err
	}
	return response.New(c).WithEnvelope("invoice", dto.NewInvoiceResponse(invoice)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "invoices.delete", trace.WithAttributes(attribute.Int64("invoice.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return err
	}
	return response.New(c).Deleted().Build()
}

func parseID(c echo.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err), errorbank.WithDetail("id", raw))
	}
	return id, nil
}
