package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestRecoveryWritesServerErrorEnvelope(t *testing.T) {
	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(Recovery(logger), RequestIDMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := w.Body.String(); got != `{"success":false,"message":"Server error"}` {
		t.Errorf("body = %s", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("nil map write")) || !bytes.Contains(logs.Bytes(), []byte(w.Header().Get(HeaderRequestID))) {
		t.Errorf("log = %s", logs.String())
	}
}
