package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar metrics, reachable from private networks only
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", middleware.InternalOnly(), rl, gin.WrapH(expvar.Handler()))
}
