package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/pkg/response"
	"github.com/campnet-io/campnet-backend/pkg/validation"
)

// FollowHandler exposes the follow workflow: sending a request, listing
// incoming requests and resolving one.
type FollowHandler struct {
	Svc    *app.FollowService
	Logger *logrus.Logger
}

func NewFollowHandler(svc *app.FollowService, logger *logrus.Logger) *FollowHandler {
	return &FollowHandler{Svc: svc, Logger: logger}
}

type sendFollowRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// Send creates a pending follow request addressed to the target user.
func (h *FollowHandler) Send(c *gin.Context) {
	uid := c.GetString("userID")
	var req sendFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	fr, err := h.Svc.Follow(c.Request.Context(), uid, req.ID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSelfFollow):
			response.Fail(c, http.StatusBadRequest, "cannot follow yourself", nil)
		case errors.Is(err, app.ErrTargetNotFound), errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, app.ErrDuplicateFollow):
			response.Fail(c, http.StatusConflict, "follow request already exists", nil)
		default:
			response.Fail(c, http.StatusInternalServerError, "failed to send follow request", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"follow": fr}, "follow request sent", nil)
}

// Requests lists pending follow requests addressed to the caller.
func (h *FollowHandler) Requests(c *gin.Context) {
	uid := c.GetString("userID")
	reqs, err := h.Svc.Requests(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to list follow requests", nil)
		return
	}
	if reqs == nil {
		reqs = []entity.FollowRequest{}
	}
	response.Success(c, http.StatusOK, gin.H{"followRequests": reqs}, "follow requests", map[string]any{"count": len(reqs)})
}

type resolveFollowRequest struct {
	FollowByID string `json:"followById" binding:"required,uuid"`
	Status     string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

// Resolve accepts or rejects the pending request from followById to the
// caller. Resolving a request that no longer exists succeeds quietly.
func (h *FollowHandler) Resolve(c *gin.Context) {
	uid := c.GetString("userID")
	var req resolveFollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	edge, err := h.Svc.Resolve(c.Request.Context(), req.FollowByID, uid, req.Status)
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "failed to resolve follow request", nil)
		return
	}
	if edge != nil {
		response.Success(c, http.StatusOK, gin.H{"follow": edge}, "follow request accepted", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"follow": nil, "by": req.FollowByID, "status": req.Status}, "follow request resolved", nil)
}
