package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-finance/pkg/response"
)

// Pinger reports backend readiness for the health route.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	health      Pinger
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

// HealthCheck enables GET /api/health backed by p (typically the pg pool).
func (r *Registry) HealthCheck(p Pinger) { r.health = p }

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	if r.health != nil {
		r.API.GET("/health", r.healthHandler)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}

func (r *Registry) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := r.health.Ping(ctx); err != nil {
		response.Error[any](c, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
}
