package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/pkg/response"
)

// NotificationHandler reads and settles the caller's notification inbox.
type NotificationHandler struct {
	Svc    *app.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *app.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

// List returns the caller's unread notifications, newest first. The optional
// "type" query narrows by event type; unknown types yield an empty list.
func (h *NotificationHandler) List(c *gin.Context) {
	uid := c.GetString("userID")
	typeFilter := c.Query("type")
	if typeFilter != "" && !entity.KnownNotificationType(typeFilter) {
		response.Success(c, http.StatusOK, gin.H{"notifications": []entity.Notification{}}, "notifications", map[string]any{"count": 0})
		return
	}
	items, err := h.Svc.Unread(c.Request.Context(), uid, typeFilter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to list notifications", nil)
		return
	}
	if items == nil {
		items = []entity.Notification{}
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": items}, "notifications", map[string]any{"count": len(items)})
}

// MarkAllRead settles every notification where the caller is sender or
// receiver.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	uid := c.GetString("userID")
	if err := h.Svc.MarkAllRead(c.Request.Context(), uid); err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to mark notifications read", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"marked": true}, "notifications marked read", nil)
}

// MarkRead settles a single notification by id.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.Svc.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, app.ErrNotificationNotFound) {
			response.Fail(c, http.StatusNotFound, "notification not found", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "failed to mark notification read", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notification": n}, "notification marked read", nil)
}
