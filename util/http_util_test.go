// api/util/http_util_test.go
package util_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rollcall-app/api/middleware"
	"github.com/rollcall-app/api/util"
)

// The email helper must read the same context key the auth middleware
// writes, or every access check silently denies.
func TestGetUserEmailFromContextReadsAuthKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(middleware.ContextUserEmail, "teacher@example.edu")

	email, err := util.GetUserEmailFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "teacher@example.edu", email)
}

func TestGetUserEmailFromContextErrorsWhenUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := util.GetUserEmailFromContext(c)
	assert.Error(t, err)
}
