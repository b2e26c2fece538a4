package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-finance/internal/container"
	handlers "github.com/oksasatya/go-ddd-finance/internal/interface/http"
	"github.com/oksasatya/go-ddd-finance/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
)

// EntryModule registers the entry routes; all of them require authentication.
type EntryModule struct {
	Handler *handlers.EntryHandler
	JWT     *helpers.JWTManager
}

func NewEntryModule(h *handlers.EntryHandler, jwt *helpers.JWTManager) *EntryModule {
	return &EntryModule{Handler: h, JWT: jwt}
}

func (m *EntryModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/entries")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PUT("/:id/status", m.Handler.UpdateStatus)
		auth.DELETE("/:id", m.Handler.Delete)
	}

	// statement uploads are expensive; keep them scarce per user
	auth.POST("/statements", middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil), m.Handler.ExportStatement)
}
