package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendly/utils"
)

// getLogger retrieves a request-scoped zap logger from the gin context,
// falling back to the global logger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}
