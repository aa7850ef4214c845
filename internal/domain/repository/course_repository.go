package repository

import (
	"context"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// CourseRepository stores courses, enrollments and reviews.
type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.Course, error)

	// Enroll records userID in the course's enrollments. Enrolling twice
	// is a no-op; the bool reports whether the enrollment is new.
	Enroll(ctx context.Context, courseID, userID string) (bool, error)
	Enrolments(ctx context.Context, courseID string) ([]entity.UserRef, error)

	CreateReview(ctx context.Context, r *entity.Review) error
	GetReview(ctx context.Context, id string) (*entity.Review, error)
	UpdateReview(ctx context.Context, r *entity.Review) error
	DeleteReview(ctx context.Context, id string) error
	ReviewsForCourse(ctx context.Context, courseID string) ([]entity.Review, error)
}
