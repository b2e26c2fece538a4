package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/pkg/helpers"
	"github.com/oksasatya/go-ddd-finance/pkg/response"
)

// CtxUserIDKey holds the authenticated user id (int64).
const CtxUserIDKey = "userID"

func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the access token (cookie or Bearer header). When rdb is set it
// also requires the token's session to be the active one in Redis.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), application.SessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			c.Set("userName", data["name"])
			c.Set("userEmail", data["email"])
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
