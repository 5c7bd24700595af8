// api/util/http_util.go
package util

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/rollcall-app/api/logging"
	"github.com/rollcall-app/api/middleware"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

func GetUserEmailFromContext(c *gin.Context) (string, error) {
	email, exists := c.Get(middleware.ContextUserEmail)
	if !exists {
		return "", errors.New("no authenticated user in context")
	}
	return email.(string), nil
}
