package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-finance/pkg/response"
)

// ipFromCtx prefers the address stored by RealIP.
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// routePath is the registered route pattern, so /entries/1 and /entries/2 share a bucket.
func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID charges the authenticated user, or the IP before Auth has run.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetInt64(CtxUserIDKey)
		if uid == 0 {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + strconv.FormatInt(uid, 10)
	}
}

// fixedWindowScript returns {hits, pttl}; the window starts on the first hit.
var fixedWindowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// AllowFunc exempts a request from limiting when it returns true.
type AllowFunc func(*gin.Context) bool

// RateLimit allows max requests per window for each key, answering 429 past that.
// It is a pass-through without Redis and fails open on Redis errors.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		res, err := fixedWindowScript.Run(c.Request.Context(), rdb, []string{keyFn(c)}, window.Milliseconds()).Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		hits := toInt(res[0])
		resetSec := resetSeconds(toInt(res[1]))

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(max, hits)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if hits > max {
			c.Header("Retry-After", strconv.Itoa(resetSec))
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func remaining(max, hits int) int {
	if hits >= max {
		return 0
	}
	return max - hits
}

// resetSeconds rounds a PTTL up to whole seconds; expired or missing keys give 0.
func resetSeconds(pttlMillis int) int {
	if pttlMillis <= 0 {
		return 0
	}
	return (pttlMillis + 999) / 1000
}

func toInt(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
