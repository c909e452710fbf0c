package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

// ErrorHandler renders the last error attached to the context with c.Error.
// Bind errors carry their request source in Meta and are reported as VALIDATION;
// errors outside the taxonomy become SERVER errors.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		err := last.Err
		if last.IsType(gin.ErrorTypeBind) {
			source, _ := last.Meta.(string)
			if source == "" {
				source = apperrors.SourceBody
			}
			err = apperrors.FromValidation(source, last.Err)
		}

		status, body := apperrors.Respond(err)

		reqLog := logger.WithContext(c.Request.Context(), log).With(
			zap.Int("status", status),
			zap.String("code", body.Error),
			zap.Error(last.Err),
		)
		if status >= 500 {
			reqLog.Error("request failed")
		} else {
			reqLog.Debug("request rejected")
		}

		c.AbortWithStatusJSON(status, body)
	}
}
