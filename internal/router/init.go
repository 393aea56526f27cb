package router

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/application"
	handlers "github.com/oksasatya/go-ddd-task-dashboard/internal/interface/http"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/router/modules"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

// Deps is everything the HTTP layer needs. It is built by the container.
type Deps struct {
	Users  *application.UserService
	Tasks  *application.TaskService
	Tokens middleware.TokenVerifier
	Logger *logrus.Logger

	// Ping checks the primary store for /healthz. Nil always reports ok.
	Ping func(ctx context.Context) error

	AvatarUploads bool
	DebugMetrics  bool
	AccessLog     bool
	CORSOrigins   []string
}

// InitModules registers every feature module with the registry.
func InitModules(r *Registry, d Deps) {
	auth := middleware.BearerAuth(d.Tokens)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Users, d.Logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, d.Logger), auth, d.AvatarUploads))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(d.Tasks, d.Logger), auth))
	if d.DebugMetrics {
		r.Add(modules.NewDebugModule())
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewEngine builds the gin engine with global middleware and all routes.
func NewEngine(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestIDMiddleware())
	if d.AccessLog {
		r.Use(middleware.AccessLog(d.Logger))
	}
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	health := &handlers.HealthHandler{Ping: d.Ping, Logger: d.Logger}
	r.GET("/healthz", health.Check)
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg, d)
	routes := reg.RegisterAll()
	if d.Logger != nil {
		for _, ri := range routes {
			d.Logger.WithFields(logrus.Fields{"method": ri.Method, "path": ri.Path}).Debug("route registered")
		}
	}
	return r
}
