package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
		code codes.Code
	}{
		{name: "not found", err: NotFound("Company not found for code of fie"), want: http.StatusNotFound, code: codes.NotFound},
		{name: "bad request", err: BadRequest("invalid id"), want: http.StatusBadRequest, code: codes.InvalidArgument},
		{name: "too many requests", err: TooManyRequests("slow down"), want: http.StatusTooManyRequests, code: codes.ResourceExhausted},
		{name: "internal", err: Internal("boom"), want: http.StatusInternalServerError, code: codes.Internal},
		{name: "nil", err: nil, want: http.StatusInternalServerError, code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
			assert.Equal(t, tt.code, tt.err.GRPCCode())
		})
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("pq: duplicate key value violates unique constraint")

	appErr := From(cause)
	require.NotNil(t, appErr)
	assert.Equal(t, KindInternal, appErr.Kind())
	assert.Equal(t, "internal error", appErr.Message())
	assert.ErrorIs(t, appErr, cause)

	assert.Nil(t, From(nil))
}

func TestFromKeepsAppErrors(t *testing.T) {
	original := NotFound("Invoice not found for id of 7", WithDetail("id", int64(7)))
	wrapped := fmt.Errorf("get invoice: %w", original)

	appErr := From(wrapped)
	assert.Same(t, original, appErr)
	assert.Equal(t, map[string]any{"id": int64(7)}, appErr.Details())
}

func TestFromStatus(t *testing.T) {
	assert.Equal(t, KindNotFound, FromStatus(http.StatusNotFound, "Not Found").Kind())
	assert.Equal(t, KindMethodNotAllowed, FromStatus(http.StatusMethodNotAllowed, "Method Not Allowed").Kind())
	assert.Equal(t, http.StatusConflict, FromStatus(http.StatusConflict, "Conflict").StatusCode())
}

func TestFromStatusKeepsUnmappedStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{status: http.StatusUnsupportedMediaType, kind: KindBadRequest},
		{status: http.StatusRequestEntityTooLarge, kind: KindBadRequest},
		{status: http.StatusBadGateway, kind: KindInternal},
		{status: http.StatusServiceUnavailable, kind: KindInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			appErr := FromStatus(tt.status, http.StatusText(tt.status))
			assert.Equal(t, tt.kind, appErr.Kind())
			assert.Equal(t, tt.status, appErr.StatusCode())
		})
	}
}

func TestNewDefaultsMessageToKind(t *testing.T) {
	assert.Equal(t, "not_found", NotFound("").Message())
	assert.Equal(t, http.StatusTeapot, New(KindBadRequest, "", WithStatus(http.StatusTeapot)).StatusCode())
}
