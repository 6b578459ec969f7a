package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
	"github.com/noah-isme/jieqi-converter/pkg/logger"
)

// logFailure records server-side failures with their wrapped cause. Client errors are left to
// the access log.
func logFailure(c *gin.Context, l *zap.Logger, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status < 500 {
		return
	}
	logger.FromContext(l, c).Error("request failed",
		zap.String("code", appErr.Code),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
}
