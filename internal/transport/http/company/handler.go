package company

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Huulamnguyen/biztime/internal/dto"
	"github.com/Huulamnguyen/biztime/internal/entity"
	"github.com/Huulamnguyen/biztime/internal/presentation/http/response"
	service "github.com/Huulamnguyen/biztime/internal/service/company"
	"github.com/Huulamnguyen/biztime/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Huulamnguyen/biztime/transport/http/company")

// Handler exposes company endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a company Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/companies")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:code", h.getByCode)
	g.PATCH("/:code", h.update)
	g.DELETE("/:code", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	ctx, span := httpTracer.Start(c.Request().Context(), "companies.list")
	defer span.End()

	companies, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return response.New(c).WithEnvelope("companies", dto.NewCompanySummaries(companies)).Build()
}

func (h *Handler) getByCode(c echo.Context) error {
	code := c.Param("code")
	ctx, span := httpTracer.Start(c.Request().Context(), "companies.getByCode", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	detail, err := h.svc.Get(ctx, code)
	if err != nil {
		return err
	}
	return response.New(c).
		WithEnvelope("company", dto.NewCompanyDetailResponse(detail.Company, detail.Invoices)).
		Build()
}

func (h *Handler) create(c echo.Context) error {
	var payload dto.CreateCompanyRequest
	if err := c.Bind(&payload); err != nil {
		return errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}

	code := lo.FromPtr(payload.Code)
	ctx, span := httpTracer.Start(c.Request().Context(), "companies.create", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	company := &entity.Company{
		Code:        code,
		Name:        lo.FromPtr(payload.Name),
		Description: payload.Description,
	}
	if err := h.svc.Create(ctx, company); err != nil {
		return err
	}
	return response.New(c).
		WithStatus(http.StatusCreated).
		WithEnvelope("company", dto.NewCompanyResponse(company)).
		Build()
}

func (h *Handler) update(c echo.Context) error {
	code := c.Param("code")

	var payload dto.UpdateCompanyRequest
	if err := c.Bind(&payload); err != nil {
		return errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "companies.update", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	company := &entity.Company{
		Code:        code,
		Name:        lo.FromPtr(payload.Name),
		Description: payload.Description,
	}
	if err := h.svc.Update(ctx, company); err != nil {
		return err
	}
	return response.New(c).WithEnvelope("company", dto.NewCompanyResponse(company)).Build()
}

func (h *Handler) delete(c echo.Context) error {
	code := c.Param("code")
	ctx, span := httpTracer.Start(c.Request().Context(), "companies.delete", trace.WithAttributes(attribute.String("company.code", code)))
	defer span.End()

	if err := h.svc.Delete(ctx, code); err != nil {
		return err
	}
	return response.New(c).Deleted().Build()
}
