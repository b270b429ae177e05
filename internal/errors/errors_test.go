package gerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDataAccess(t *testing.T) {
	cause := errors.New("connection refused")
	err := DataAccess("fetch sales lines", cause)

	assert.True(t, errors.Is(err, ErrDataAccess))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Contains(t, err.Error(), "fetch sales lines")

	wrapped := fmt.Errorf("ranking: %w", err)
	assert.True(t, errors.Is(wrapped, ErrDataAccess))

	assert.NoError(t, DataAccess("noop", nil))
}

func TestTaxonomyCodes(t *testing.T) {
	assert.Equal(t, codes.Unauthenticated, status.Code(ErrUnauthorized))
	assert.Equal(t, codes.InvalidArgument, status.Code(InvalidArgument("missing %s", "productKey")))
}
