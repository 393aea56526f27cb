package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

// HealthHandler reports whether the primary store is reachable.
type HealthHandler struct {
	Ping   func(ctx context.Context) error
	Logger *logrus.Logger
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			h.Logger.WithError(err).Warn("health check failed")
			response.Error(c, http.StatusServiceUnavailable, "Unavailable", nil)
			return
		}
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "")
}
