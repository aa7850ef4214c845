package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/pkg/response"
)

func isPrivateAddr(raw string) bool {
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}

// AllowPrivateIP exempts callers on loopback or RFC 1918 addresses from
// rate limiting. Intended for health probes and internal tooling.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		return isPrivateAddr(ipFromCtx(c))
	}
}

// InternalOnly rejects requests that do not originate from a private
// network. Used to fence off the debug surface.
func InternalOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPrivateAddr(ipFromCtx(c)) {
			resp := response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.AbortWithStatusJSON(http.StatusForbidden, resp)
			return
		}
		c.Next()
	}
}
