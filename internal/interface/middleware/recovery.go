package middleware

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

// Recovery answers a panicking handler with the standard 500 envelope and
// logs the panic through logger instead of gin's default writer.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"panic":      rec,
				"request_id": c.GetString("request_id"),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error("panic recovered")
		}
		response.Error(c, http.StatusInternalServerError, "Server error", nil)
	})
}
