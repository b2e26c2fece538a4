package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-finance/internal/container"
	handlers "github.com/oksasatya/go-ddd-finance/internal/interface/http"
	"github.com/oksasatya/go-ddd-finance/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
)

// UserModule wires user HTTP handlers under the given RouterGroup (usually /api)
// Public: POST /users/authenticate, POST /users
// Protected: POST /users/logout, GET /users/:id/balance
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public with rate limiting: 10 logins and 5 sign-ups per minute per IP
	authLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/authenticate", authLimiter, m.Handler.Authenticate)
	rg.POST("/users", registerLimiter, m.Handler.Register)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/:id/balance", m.Handler.Balance)
	}
}
