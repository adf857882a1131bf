package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	types "github.com/yungbote/memoquiz-backend/internal/domain"
)

func TestFromMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: question x", types.ErrNotFound), http.StatusNotFound, "question_not_found"},
		{fmt.Errorf("%w: bad count", types.ErrInvalidArgument), http.StatusBadRequest, "invalid_request"},
		{fmt.Errorf("load: %w", types.ErrStorageCorrupt), http.StatusInternalServerError, "storage_corrupt"},
		{types.NewGenerationError(types.GenerationTimeout, nil), http.StatusBadGateway, "generation_failed"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got := From(tc.err)
		assert.Equal(t, tc.status, got.Status, tc.err.Error())
		assert.Equal(t, tc.code, got.Code)
		assert.ErrorIs(t, got, tc.err)
	}
}

func TestFromKeepsExplicitError(t *testing.T) {
	explicit := New(http.StatusTeapot, "teapot", errors.New("short and stout"))
	got := From(fmt.Errorf("wrapped: %w", explicit))
	assert.Same(t, explicit, got)
}
