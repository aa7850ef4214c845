package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
	"github.com/campnet-io/campnet-backend/pkg/response"
)

// AdminHandler exposes the moderation surface: listing, banning, role
// flipping and deleting accounts. All routes sit behind the admin role.
type AdminHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *app.UserService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	f := repo.ListUsersFilter{
		Role:    c.Query("role"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	}
	users, total, err := h.Svc.ListUsers(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	out := make([]gin.H, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, gin.H{
			"id":          u.ID,
			"email":       u.Email,
			"name":        u.Name,
			"phone":       u.Phone,
			"role":        u.Role,
			"is_verified": u.IsVerified,
			"is_banned":   u.IsBanned,
			"created_at":  u.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, out, "users", map[string]any{"total": total, "page": f.Page, "per_page": f.PerPage})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.adminError(c, err, "failed to fetch user")
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
		"is_banned":   u.IsBanned,
		"created_at":  u.CreatedAt,
	}, "user", nil)
}

func (h *AdminHandler) ToggleBan(c *gin.Context) {
	adminID := c.GetString("userID")
	u, err := h.Svc.ToggleBan(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		h.adminError(c, err, "failed to toggle ban")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "is_banned": u.IsBanned}, "ban toggled", nil)
}

func (h *AdminHandler) ToggleRole(c *gin.Context) {
	adminID := c.GetString("userID")
	u, err := h.Svc.ToggleRole(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		h.adminError(c, err, "failed to toggle role")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "role": u.Role}, "role toggled", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID := c.GetString("userID")
	if err := h.Svc.DeleteUser(c.Request.Context(), adminID, c.Param("id")); err != nil {
		h.adminError(c, err, "failed to delete user")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deleted", nil)
}

func (h *AdminHandler) adminError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, app.ErrCannotModifySelf):
		response.Fail(c, http.StatusConflict, "cannot modify own account", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, fallback, nil)
	}
}
