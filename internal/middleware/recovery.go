package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
	"github.com/noah-isme/jieqi-converter/pkg/logger"
	"github.com/noah-isme/jieqi-converter/pkg/response"
)

// Recovery converts panics into the INTERNAL_ERROR envelope and logs the panic value.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(l, c).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		response.Error(c, appErrors.ErrInternal)
		c.Abort()
	})
}
