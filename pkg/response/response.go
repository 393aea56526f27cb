package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/pkg/apperror"
)

// APIResponse is the envelope of every JSON body the API writes.
// It carries no per-request values so that identical outcomes produce
// byte-identical bodies; the request id travels in the X-Request-ID header.
type APIResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Count   *int              `json:"count,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Success(c *gin.Context, status int, data any, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

// List writes a collection with its count. data should be a non-nil slice
// so an empty result still serializes as [].
func List(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Count: &count})
}

// Error writes a failure body and aborts the handler chain.
func Error(c *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, APIResponse{Success: false, Message: message, Errors: details})
}

// FromError is the single translation point from application errors to
// HTTP responses. Unexpected errors are logged and answered generically.
func FromError(c *gin.Context, logger *logrus.Logger, err error) {
	ae := apperror.As(err)
	if ae == nil {
		return
	}
	if ae.Kind == apperror.KindUnexpected && logger != nil {
		logger.WithError(ae.Err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"user_id":    c.GetString("userID"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	Error(c, ae.Kind.Status(), ae.Message, ae.Details)
}
