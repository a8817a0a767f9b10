package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatnt99/shelfwise/internal/apperr"
	"github.com/phatnt99/shelfwise/internal/http/apierr"
	"github.com/phatnt99/shelfwise/pkg/validator"
	"github.com/phatnt99/shelfwise/pkg/zerror"
)

func TestNew(t *testing.T) {
	t.Run("Should map not found errors to 404", func(t *testing.T) {
		res := apierr.New(fmt.Errorf("lookup: %w", apperr.ProductNotFoundErr))

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Equal(t, apperr.ProductNotFoundCode, res.Code)
	})

	t.Run("Should map conflict errors to 409", func(t *testing.T) {
		res := apierr.New(apperr.BarcodeTakenErr)

		assert.Equal(t, http.StatusConflict, res.StatusCode)
		assert.Equal(t, apperr.BarcodeTakenCode, res.Code)
	})

	t.Run("Should map validation failures to 400", func(t *testing.T) {
		res := apierr.New(apperr.NegativeStockErr)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Equal(t, apperr.NegativeStockCode, res.Code)
	})

	t.Run("Should map validator errors to 400 with field details", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type req struct {
			Email string `validate:"required,email"`
		}

		res := apierr.New(v.Validate(req{}))

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.Len(t, res.Details, 1)
		assert.Equal(t, "Email", res.Details[0].Field)
		assert.Equal(t, "field is required", res.Details[0].Message)
	})

	t.Run("Should fall back to 500 for unknown errors", func(t *testing.T) {
		res := apierr.New(errors.New("boom"))

		assert.Equal(t, apierr.InternalServerErr, res)
	})
}

func TestZErrorStatusToHTTPStatus(t *testing.T) {
	tests := []struct {
		status zerror.Status
		want   int
	}{
		{zerror.StatusNotFound, http.StatusNotFound},
		{zerror.StatusConflict, http.StatusConflict},
		{zerror.StatusValidationFailed, http.StatusBadRequest},
		{zerror.StatusInternalServerError, http.StatusInternalServerError},
		{zerror.StatusServiceUnavailable, http.StatusServiceUnavailable},
		{zerror.StatusUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, apierr.ZErrorStatusToHTTPStatus(tt.status))
	}
}
