package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
	"github.com/campnet-io/campnet-backend/internal/interface/realtime"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// RealtimeModule exposes the websocket relay at GET /api/ws.

type RealtimeModule struct {
	Hub *realtime.Hub
	JWT *helpers.JWTManager
}

func NewRealtimeModule(hub *realtime.Hub, jwt *helpers.JWTManager) *RealtimeModule {
	return &RealtimeModule{Hub: hub, JWT: jwt}
}

func (m *RealtimeModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.GET("/ws", m.Hub.Handle)
	}
}
