package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/pkg/response"
	"github.com/campnet-io/campnet-backend/pkg/validation"
)

type CommentHandler struct {
	Svc    *app.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *app.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type commentRequest struct {
	Body     string `json:"body" binding:"required,max=2000"`
	ParentID string `json:"parent_id" binding:"omitempty,uuid"`
}

// Create posts a comment on a course; with parent_id set, a reply.
func (h *CommentHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.Create(c.Request.Context(), uid, c.Param("id"), req.ParentID, req.Body)
	if err != nil {
		h.commentError(c, err, "failed to post comment")
		return
	}
	response.Success(c, http.StatusCreated, cm, "comment posted", nil)
}

// ForCourse lists the course thread with replies nested.
func (h *CommentHandler) ForCourse(c *gin.Context) {
	comments, err := h.Svc.ForCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.commentError(c, err, "failed to list comments")
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", map[string]any{"count": len(comments)})
}

type commentUpdateRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

func (h *CommentHandler) Update(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	var req commentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	cm, err := h.Svc.Update(c.Request.Context(), uid, role, c.Param("commentId"), req.Body)
	if err != nil {
		h.commentError(c, err, "failed to update comment")
		return
	}
	response.Success(c, http.StatusOK, cm, "comment updated", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	if err := h.Svc.Delete(c.Request.Context(), uid, role, c.Param("commentId")); err != nil {
		h.commentError(c, err, "failed to delete comment")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "comment deleted", nil)
}

func (h *CommentHandler) commentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, "course not found", nil)
	case errors.Is(err, app.ErrCommentNotFound):
		response.Fail(c, http.StatusNotFound, "comment not found", nil)
	case errors.Is(err, app.ErrBadParent):
		response.Fail(c, http.StatusBadRequest, "parent comment not found on this course", nil)
	case errors.Is(err, app.ErrNotCommentOwner):
		response.Fail(c, http.StatusForbidden, "not allowed", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, fallback, nil)
	}
}
