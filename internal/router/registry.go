package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its own routes. Each module under
// router/modules wires its handlers, middleware and rate limits onto the
// group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and mounts them under a common base path.
// Middleware added with Use applies to every module route but not to
// anything registered directly on the engine.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, basePath string) *Registry {
	if basePath == "" {
		basePath = "/"
	}
	return &Registry{Engine: engine, API: engine.Group(basePath)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll applies the shared middleware and mounts every module.
// Call once, after all Add calls.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
