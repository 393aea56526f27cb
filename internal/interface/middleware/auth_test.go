package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func TestResolveIdentity(t *testing.T) {
	tokens := helpers.NewJWTManager("mw-secret", time.Hour)
	good, _, err := tokens.Issue("user-a")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, _, _ := helpers.NewJWTManager("other", time.Hour).Issue("user-a")

	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer " + good, "user-a", true},
		{"missing", "", "", false},
		{"wrong scheme", "Token " + good, "", false},
		{"lowercase scheme", "bearer " + good, "", false},
		{"no token", "Bearer ", "", false},
		{"raw token", good, "", false},
		{"foreign signature", "Bearer " + foreign, "", false},
		{"garbage", "Bearer abc.def.ghi", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			uid, ok := ResolveIdentity(r, tokens)
			if uid != tt.want || ok != tt.ok {
				t.Errorf("ResolveIdentity = (%q, %v), want (%q, %v)", uid, ok, tt.want, tt.ok)
			}
		})
	}
}

func newAuthEngine(tokens TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", BearerAuth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func TestBearerAuthFailuresLookIdentical(t *testing.T) {
	tokens := helpers.NewJWTManager("mw-secret", time.Hour)
	r := newAuthEngine(tokens)

	var bodies [][]byte
	for _, h := range []string{"", "Basic dXNlcjpwYXNz", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%q: status = %d, want 401", h, w.Code)
		}
		bodies = append(bodies, w.Body.Bytes())
	}
	for _, b := range bodies[1:] {
		if !bytes.Equal(b, bodies[0]) {
			t.Errorf("bodies differ: %s vs %s", b, bodies[0])
		}
	}
	if string(bodies[0]) != `{"success":false,"message":"Unauthorized"}` {
		t.Errorf("body = %s", bodies[0])
	}
}

func TestBearerAuthSetsUser(t *testing.T) {
	tokens := helpers.NewJWTManager("mw-secret", time.Hour)
	token, _, _ := tokens.Issue("user-b")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newAuthEngine(tokens).ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "user-b" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRequestIDReusesValidIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const id = "5b7f3c1e-8d2a-4f0b-9c3e-1a2b3c4d5e6f"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got == "<script>" || got == "" {
		t.Errorf("request id = %q, want a fresh id", got)
	}
}

func TestAccessLogWritesEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))

	out := buf.String()
	for _, want := range []string{`"path":"/tasks/:id"`, `"status":404`, `"level":"warning"`, `"request_id":"`} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("log %s missing %s", out, want)
		}
	}
}
