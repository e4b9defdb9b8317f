package response

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/pkg/errorbank"
)

// DeletedMessage is the body message of every successful DELETE.
const DeletedMessage = "DELETED!"

// Builder helps construct consistent HTTP responses. Success bodies wrap the
// payload in a single envelope key, e.g. {"company": {...}}.
type Builder struct {
	ctx      echo.Context
	status   int
	envelope string
	data     any
	err      error
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithEnvelope attaches a success payload under key.
func (b *Builder) WithEnvelope(key string, data any) *Builder {
	b.envelope = key
	b.data = data
	return b
}

// Deleted sets the {"msg": "DELETED!"} body.
func (b *Builder) Deleted() *Builder {
	return b.WithEnvelope("msg", DeletedMessage)
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.buildError()
	}
	return b.buildSuccess()
}

func (b *Builder) buildSuccess() error {
	if b.envelope == "" {
		return b.ctx.NoContent(b.status)
	}
	return b.ctx.JSON(b.status, map[string]any{b.envelope: b.data})
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

func (b *Builder) buildError() error {
	appErr := errorbank.From(b.err)
	status := b.status
	if status < 400 {
		status = appErr.StatusCode()
	}

	return b.ctx.JSON(status, ErrorBody{Error: ErrorDetail{
		Kind:    string(appErr.Kind()),
		Message: appErr.Message(),
		Status:  status,
		Details: appErr.Details(),
	}})
}

// ErrorHandler is the single responder for errors returned by handlers and
// middleware. Application errors keep their kind; Echo routing errors are
// mapped by status; anything else is a 500 with a generic message.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			msg := http.StatusText(httpErr.Code)
			if m, ok := httpErr.Message.(string); ok && m != "" {
				msg = m
			}
			err = errorbank.FromStatus(httpErr.Code, msg, errorbank.WithCause(httpErr.Internal))
		}

		appErr := errorbank.From(err)
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", appErr.StatusCode()),
			zap.Error(err),
		}
		if appErr.StatusCode() >= http.StatusInternalServerError {
			logger.Error("request failed", fields...)
		} else {
			logger.Debug("request rejected", fields...)
		}

		var buildErr error
		if c.Request().Method == http.MethodHead {
			buildErr = c.NoContent(appErr.StatusCode())
		} else {
			buildErr = New(c).WithError(appErr).Build()
		}
		if buildErr != nil {
			logger.Error("write error response", zap.Error(buildErr))
		}
	}
}
