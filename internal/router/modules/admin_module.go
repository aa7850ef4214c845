package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	handlers "github.com/campnet-io/campnet-backend/internal/interface/http"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// AdminModule wires moderation routes behind the admin role.

type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.PUT("/users/:id/ban", m.Handler.ToggleBan)
		admin.PUT("/users/:id/role", m.Handler.ToggleRole)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
	}
}
