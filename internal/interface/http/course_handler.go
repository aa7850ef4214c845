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

type CourseHandler struct {
	Svc    *app.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *app.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type courseRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=128"`
	Description  string  `json:"description" binding:"required"`
	Weeks        int     `json:"weeks" binding:"required,gte=1"`
	Tuition      float64 `json:"tuition" binding:"gte=0"`
	MinimumSkill string  `json:"minimum_skill" binding:"required,oneof=beginner intermediate advanced"`
}

type courseUpdateRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Weeks        int     `json:"weeks" binding:"omitempty,gte=1"`
	Tuition      float64 `json:"tuition" binding:"omitempty,gte=0"`
	MinimumSkill string  `json:"minimum_skill" binding:"omitempty,oneof=beginner intermediate advanced"`
}

func (h *CourseHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), uid, app.CourseInput{
		Name:         req.Name,
		Description:  req.Description,
		Weeks:        req.Weeks,
		Tuition:      req.Tuition,
		MinimumSkill: req.MinimumSkill,
	})
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to create course", nil)
		return
	}
	response.Success(c, http.StatusCreated, course, "course created", nil)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "failed to list courses", nil)
		return
	}
	response.Success(c, http.StatusOK, courses, "courses", map[string]any{"count": len(courses)})
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, "course not found", nil)
		return
	}
	response.Success(c, http.StatusOK, course, "course", nil)
}

func (h *CourseHandler) Update(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), uid, role, c.Param("id"), app.CourseInput{
		Name:         req.Name,
		Description:  req.Description,
		Weeks:        req.Weeks,
		Tuition:      req.Tuition,
		MinimumSkill: req.MinimumSkill,
	})
	if err != nil {
		h.courseError(c, err, "failed to update course")
		return
	}
	response.Success(c, http.StatusOK, course, "course updated", nil)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	if err := h.Svc.Delete(c.Request.Context(), uid, role, c.Param("id")); err != nil {
		h.courseError(c, err, "failed to delete course")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "course deleted", nil)
}

// Enroll subscribes the caller to the course; the owner gets a
// COURSE_SUBSCRIBE_EVENT notification.
func (h *CourseHandler) Enroll(c *gin.Context) {
	uid := c.GetString("userID")
	course, err := h.Svc.Enroll(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.courseError(c, err, "failed to enroll")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course_id": course.ID, "enrolled": true}, "enrolled", nil)
}

func (h *CourseHandler) Enrolments(c *gin.Context) {
	refs, err := h.Svc.Enrolments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.courseError(c, err, "failed to list enrolments")
		return
	}
	response.Success(c, http.StatusOK, refs, "enrolments", map[string]any{"count": len(refs)})
}

type reviewRequest struct {
	Title  string `json:"title" binding:"required,max=100"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,gte=1,lte=10"`
}

type reviewUpdateRequest struct {
	Title  string `json:"title" binding:"omitempty,max=100"`
	Text   string `json:"text"`
	Rating int    `json:"rating" binding:"omitempty,gte=1,lte=10"`
}

func (h *CourseHandler) CreateReview(c *gin.Context) {
	uid := c.GetString("userID")
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.CreateReview(c.Request.Context(), uid, c.Param("id"), app.ReviewInput{Title: req.Title, Text: req.Text, Rating: req.Rating})
	if err != nil {
		h.courseError(c, err, "failed to create review")
		return
	}
	response.Success(c, http.StatusCreated, r, "review created", nil)
}

func (h *CourseHandler) Reviews(c *gin.Context) {
	reviews, err := h.Svc.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.courseError(c, err, "failed to list reviews")
		return
	}
	response.Success(c, http.StatusOK, reviews, "reviews", map[string]any{"count": len(reviews)})
}

func (h *CourseHandler) UpdateReview(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.UpdateReview(c.Request.Context(), uid, role, c.Param("reviewId"), app.ReviewInput{Title: req.Title, Text: req.Text, Rating: req.Rating})
	if err != nil {
		h.courseError(c, err, "failed to update review")
		return
	}
	response.Success(c, http.StatusOK, r, "review updated", nil)
}

func (h *CourseHandler) DeleteReview(c *gin.Context) {
	uid := c.GetString("userID")
	role := c.GetString("userRole")
	if err := h.Svc.DeleteReview(c.Request.Context(), uid, role, c.Param("reviewId")); err != nil {
		h.courseError(c, err, "failed to delete review")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "review deleted", nil)
}

func (h *CourseHandler) courseError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, "course not found", nil)
	case errors.Is(err, app.ErrReviewNotFound):
		response.Fail(c, http.StatusNotFound, "review not found", nil)
	case errors.Is(err, app.ErrNotCourseOwner):
		response.Fail(c, http.StatusForbidden, "not allowed", nil)
	default:
		response.Fail(c, http.StatusInternalServerError, fallback, nil)
	}
}
