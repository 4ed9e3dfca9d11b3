package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

func TestClassifyMapsKnownCodes(t *testing.T) {
	cases := []struct {
		name string
		code string
		want string
	}{
		{"missing table", "42P01", appErrors.ErrStoreUnavailable.Code},
		{"missing column", "42703", appErrors.ErrSchemaOutdated.Code},
		{"rls denial", "42501", appErrors.ErrAuthorizationDenied.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify(fmt.Errorf("exec: %w", &pq.Error{Code: pq.ErrorCode(tc.code)}))
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tc.want, appErr.Code)
		})
	}
}

func TestClassifyPassesThroughUnknownErrors(t *testing.T) {
	plain := errors.New("connection refused")
	assert.Equal(t, plain, Classify(plain))

	other := &pq.Error{Code: "23505"}
	assert.Equal(t, error(other), Classify(other))

	assert.NoError(t, Classify(nil))
}
