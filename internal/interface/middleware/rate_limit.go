package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campnet-io/campnet-backend/pkg/response"
)

// KeyFunc derives the redis key a request is counted under.
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether a request bypasses the limiter entirely.
type AllowFunc func(c *gin.Context) bool

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(ctxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyByIP counts per client address.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath counts per client address and route, so a burst against
// one endpoint does not starve the rest.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		return "rl:path:" + path + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID counts per authenticated user, falling back to the client
// address for anonymous requests.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString("userID"); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// countScript increments the counter and arms the window TTL on the
// first hit, in one atomic round trip.
var countScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimit enforces a fixed window of max requests per key. Redis
// outages fail open. OPTIONS preflights are never counted. Responses
// carry X-RateLimit-* headers and a 429 with Retry-After once the
// window is exhausted.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)

		res, err := countScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			// fail open when redis errors
			c.Next()
			return
		}
		count := int(res)

		// TTL drives the reset header
		resetSec := 0
		if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			resetSec = int(ttl.Seconds())
		}

		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			resp := response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, resp)
			return
		}
		c.Next()
	}
}
