package testutils

import (
	"testing"

	apperrors "github.com/meadcraft/meadery/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// AssertAppError checks that err is an AppError carrying code
func AssertAppError(t testing.TB, err error, code apperrors.ErrorCode) bool {
	t.Helper()

	if !assert.Error(t, err) {
		return false
	}
	return assert.Equal(t, code, apperrors.GetCode(err), "unexpected error code for %v", err)
}
