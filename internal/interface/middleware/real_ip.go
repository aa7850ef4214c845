package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxRealIPKey is where the resolved client address lives in the Gin context.
// Rate-limit keys read it through ipFromCtx.
const ctxRealIPKey = "real_ip"

// RealIP resolves the originating client address and stores it under
// "real_ip". Proxy headers are consulted in order: X-Real-IP, then the
// left-most X-Forwarded-For hop. Values that do not parse as an IP are
// ignored and the connection address wins.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := headerIP(c, "X-Real-IP"); ip != "" {
			c.Set(ctxRealIPKey, ip)
			c.Next()
			return
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				c.Set(ctxRealIPKey, ip.String())
				c.Next()
				return
			}
		}
		c.Set(ctxRealIPKey, c.ClientIP())
		c.Next()
	}
}

func headerIP(c *gin.Context, name string) string {
	raw := strings.TrimSpace(c.GetHeader(name))
	if raw == "" {
		return ""
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return ""
	}
	return ip.String()
}
