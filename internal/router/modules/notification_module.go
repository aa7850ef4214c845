package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	handlers "github.com/campnet-io/campnet-backend/internal/interface/http"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// NotificationModule wires the inbox routes, all behind auth.
// GET /api/notification lists unread, PUT /api/notification marks all read,
// PUT /api/notification/:id marks one read.

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/notification", m.Handler.List)
		auth.PUT("/notification", m.Handler.MarkAllRead)
		auth.PUT("/notification/:id", m.Handler.MarkRead)
	}
}
