package router

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every module is mounted.
const APIPrefix = "/api/v1"

// Module is a feature area that mounts its routes on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under APIPrefix.
type Registry struct {
	engine  *gin.Engine
	api     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{engine: engine, api: engine.Group(APIPrefix)}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts every module in the order added and returns the
// resulting API routes.
func (r *Registry) RegisterAll() []gin.RouteInfo {
	for _, m := range r.modules {
		m.Register(r.api)
	}
	var routes []gin.RouteInfo
	for _, ri := range r.engine.Routes() {
		if strings.HasPrefix(ri.Path, APIPrefix) {
			routes = append(routes, ri)
		}
	}
	return routes
}
