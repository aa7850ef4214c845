package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	handlers "github.com/campnet-io/campnet-backend/internal/interface/http"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// FollowModule wires the follow workflow, all behind auth.
// POST /api/follow/user sends a request, GET /api/follow lists incoming
// pending requests, POST /api/follow resolves one.

type FollowModule struct {
	Handler *handlers.FollowHandler
	JWT     *helpers.JWTManager
}

func NewFollowModule(h *handlers.FollowHandler, jwt *helpers.JWTManager) *FollowModule {
	return &FollowModule{Handler: h, JWT: jwt}
}

func (m *FollowModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/follow/user", m.Handler.Send)
		auth.GET("/follow", m.Handler.Requests)
		auth.POST("/follow", m.Handler.Resolve)
	}
}
