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

// CourseModule wires the course catalog, enrollment, reviews and comments.
// Reads are open to any authenticated user; creating a course needs the
// publisher or admin role.

type CourseModule struct {
	Courses  *handlers.CourseHandler
	Comments *handlers.CommentHandler
	JWT      *helpers.JWTManager
}

func NewCourseModule(courses *handlers.CourseHandler, comments *handlers.CommentHandler, jwt *helpers.JWTManager) *CourseModule {
	return &CourseModule{Courses: courses, Comments: comments, JWT: jwt}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/courses", m.Courses.List)
		auth.GET("/courses/:id", m.Courses.Get)
		auth.PUT("/courses/:id", m.Courses.Update)
		auth.DELETE("/courses/:id", m.Courses.Delete)
		auth.POST("/courses/:id/enroll", m.Courses.Enroll)
		auth.GET("/courses/:id/enrolments", m.Courses.Enrolments)

		auth.GET("/courses/:id/reviews", m.Courses.Reviews)
		auth.POST("/courses/:id/reviews", m.Courses.CreateReview)
		auth.PUT("/reviews/:reviewId", m.Courses.UpdateReview)
		auth.DELETE("/reviews/:reviewId", m.Courses.DeleteReview)

		auth.GET("/courses/:id/comments", m.Comments.ForCourse)
		auth.POST("/courses/:id/comments", m.Comments.Create)
		auth.PUT("/comments/:commentId", m.Comments.Update)
		auth.DELETE("/comments/:commentId", m.Comments.Delete)
	}

	publisher := auth.Group("/")
	publisher.Use(middleware.RequireRole(entity.RolePublisher, entity.RoleAdmin))
	{
		publisher.POST("/courses", m.Courses.Create)
	}
}
