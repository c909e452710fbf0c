package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

// Recovery turns a panic in any later handler into a SERVER error response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.WithContext(c.Request.Context(), log).Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)

			status, body := apperrors.Respond(apperrors.Wrap(apperrors.KindServer, "", fmt.Errorf("panic: %v", rec)))
			c.AbortWithStatusJSON(status, body)
		}()

		c.Next()
	}
}
