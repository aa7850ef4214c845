package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campnet-io/campnet-backend/internal/container"
	handlers "github.com/campnet-io/campnet-backend/internal/interface/http"
	"github.com/campnet-io/campnet-backend/internal/interface/middleware"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// AuthModule wires registration, pin verification and password recovery.
// Public: POST /api/auth/register, /api/auth/verify-pin, /api/auth/resend-pin,
// /api/auth/forgot-password, /api/auth/reset-password
// Protected: POST /api/auth/avatar
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	pinLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/verify-pin", pinLimiter, m.Handler.VerifyPin)
	rg.POST("/auth/resend-pin", pinLimiter, m.Handler.ResendPin)
	rg.POST("/auth/forgot-password", resetLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", pinLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/avatar", m.Handler.UploadAvatar)
	}
}
