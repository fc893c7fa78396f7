package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppError(t *testing.T) {
	t.Run("should map kinds to http and grpc codes", func(t *testing.T) {
		cases := []struct {
			err  *AppError
			http int
			grpc codes.Code
		}{
			{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
			{Conflict("dup"), http.StatusConflict, codes.AlreadyExists},
			{NotFound("gone"), http.StatusNotFound, codes.NotFound},
			{Unprocessable("invalid"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
			{Internal("boom"), http.StatusInternalServerError, codes.Internal},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.http, tc.err.StatusCode(), tc.err.Kind())
			assert.Equal(t, tc.grpc, tc.err.GRPCCode(), tc.err.Kind())
		}
	})

	t.Run("should expose cause and details", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Internal("failed to create order",
			WithCause(cause),
			WithDetail("id", 7),
			WithDetails(map[string]any{"table": "customer_orders"}),
		)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to create order: disk full", err.Error())
		assert.Equal(t, map[string]any{"id": 7, "table": "customer_orders"}, err.Details())
	})

	t.Run("should default the message to the kind", func(t *testing.T) {
		assert.Equal(t, "not_found", New(KindNotFound, "").Message())
	})

	t.Run("should find wrapped app errors", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", NotFound("order not found"))

		assert.True(t, IsKind(wrapped, KindNotFound))
		assert.False(t, IsKind(wrapped, KindInternal))
		assert.Equal(t, KindNotFound, From(wrapped).Kind())
	})

	t.Run("should treat unknown errors as internal", func(t *testing.T) {
		appErr := From(errors.New("oops"))
		assert.Equal(t, KindInternal, appErr.Kind())
		assert.Nil(t, From(nil))
		assert.False(t, IsKind(errors.New("oops"), KindInternal))
	})

	t.Run("should convert to a grpc status", func(t *testing.T) {
		st, ok := status.FromError(NotFound("order not found"))
		assert.True(t, ok)
		assert.Equal(t, codes.NotFound, st.Code())
		assert.Equal(t, "order not found", st.Message())
	})

	t.Run("should tolerate nil receivers", func(t *testing.T) {
		var appErr *AppError
		assert.Equal(t, KindInternal, appErr.Kind())
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode())
		assert.Nil(t, appErr.Details())
	})
}
