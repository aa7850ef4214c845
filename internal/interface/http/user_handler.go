package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
	"github.com/campnet-io/campnet-backend/pkg/response"
	"github.com/campnet-io/campnet-backend/pkg/validation"
)

type UserHandler struct {
	Svc     *app.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrAccountNotVerified):
			response.Fail(c, http.StatusForbidden, "account not verified", nil)
		case errors.Is(err, app.ErrAccountBanned):
			response.Fail(c, http.StatusForbidden, "account banned", nil)
		default:
			response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
		}
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.CookieRefreshToken)
	if err != nil || refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if uid := c.GetString("userID"); uid != "" {
		h.Svc.Logout(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"phone":       u.Phone,
		"role":        u.Role,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
		"created_at":  u.CreatedAt,
		"updated_at":  u.UpdatedAt,
	}, "profile", nil)
}

type updateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,phone"`
}

func (h *UserHandler) UpdateDetails(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateDetails(c.Request.Context(), uid, app.UpdateDetailsInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailTaken), errors.Is(err, app.ErrPhoneTaken):
			response.Fail(c, http.StatusConflict, err.Error(), nil)
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		default:
			response.Fail(c, http.StatusBadRequest, "failed to update details", err.Error())
		}
		return
	}
	response.Success(c, http.StatusOK, u.Ref(), "details updated", nil)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	uid := c.GetString("userID")
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, "current password incorrect", nil)
			return
		}
		response.Fail(c, http.StatusBadRequest, "failed to update password", err.Error())
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"updated": true}, "password updated", nil)
}

func (h *UserHandler) Followers(c *gin.Context) {
	uid := c.GetString("userID")
	refs, err := h.Svc.Followers(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, refs, "followers", map[string]any{"count": len(refs)})
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Fail(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, 10)
	if err != nil {
		response.Fail(c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
