package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrNotCourseOwner = errors.New("not the course owner")
)

// CourseService manages the course catalog, enrollment and reviews.
// Enrollment raises a CourseEnrolled event so the owner gets notified.
type CourseService struct {
	Courses repo.CourseRepository
	Users   repo.UserRepository
	Bus     event.Bus
	Logger  *logrus.Logger
}

func NewCourseService(courses repo.CourseRepository, users repo.UserRepository, bus event.Bus, logger *logrus.Logger) *CourseService {
	return &CourseService{Courses: courses, Users: users, Bus: bus, Logger: logger}
}

type CourseInput struct {
	Name         string
	Description  string
	Weeks        int
	Tuition      float64
	MinimumSkill string
}

func (s *CourseService) Create(ctx context.Context, ownerID string, in CourseInput) (*entity.Course, error) {
	c := &entity.Course{
		Name:         in.Name,
		Description:  in.Description,
		OwnerID:      ownerID,
		Weeks:        in.Weeks,
		Tuition:      in.Tuition,
		MinimumSkill: in.MinimumSkill,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *CourseService) List(ctx context.Context) ([]entity.Course, error) {
	return s.Courses.List(ctx)
}

// Update modifies a course. Only the owner (or an admin) may change it.
func (s *CourseService) Update(ctx context.Context, actorID, actorRole, courseID string, in CourseInput) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	if c.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return nil, ErrNotCourseOwner
	}
	if in.Name != "" {
		c.Name = in.Name
	}
	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Weeks > 0 {
		c.Weeks = in.Weeks
	}
	if in.Tuition > 0 {
		c.Tuition = in.Tuition
	}
	if in.MinimumSkill != "" {
		c.MinimumSkill = in.MinimumSkill
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actorID, actorRole, courseID string) error {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil || c == nil {
		return ErrCourseNotFound
	}
	if c.OwnerID != actorID && actorRole != entity.RoleAdmin {
		return ErrNotCourseOwner
	}
	return s.Courses.Delete(ctx, courseID)
}

// Enroll subscribes userID to the course and raises CourseEnrolled.
// Enrolling twice succeeds without a second event.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	enrolled, err := s.Courses.Enroll(ctx, courseID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled && s.Bus != nil {
		s.Bus.Publish(ctx, event.CourseEnrolled{
			OwnerID:    c.OwnerID,
			UserID:     userID,
			CourseID:   c.ID,
			CourseName: c.Name,
		})
	}
	if s.Logger != nil {
		s.Logger.WithField("course_id", c.ID).WithField("user_id", userID).Debug("course enrollment")
	}
	return c, nil
}

func (s *CourseService) Enrolments(ctx context.Context, courseID string) ([]entity.UserRef, error) {
	if c, err := s.Courses.GetByID(ctx, courseID); err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	return s.Courses.Enrolments(ctx, courseID)
}

type ReviewInput struct {
	Title  string
	Text   string
	Rating int
}

func (s *CourseService) CreateReview(ctx context.Context, userID, courseID string, in ReviewInput) (*entity.Review, error) {
	if c, err := s.Courses.GetByID(ctx, courseID); err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	r := &entity.Review{
		CourseID: courseID,
		UserID:   userID,
		Title:    in.Title,
		Text:     in.Text,
		Rating:   in.Rating,
	}
	if err := s.Courses.CreateReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *CourseService) UpdateReview(ctx context.Context, actorID, actorRole, reviewID string, in ReviewInput) (*entity.Review, error) {
	r, err := s.Courses.GetReview(ctx, reviewID)
	if err != nil || r == nil {
		return nil, ErrReviewNotFound
	}
	if r.UserID != actorID && actorRole != entity.RoleAdmin {
		return nil, ErrNotCourseOwner
	}
	if in.Title != "" {
		r.Title = in.Title
	}
	if in.Text != "" {
		r.Text = in.Text
	}
	if in.Rating > 0 {
		r.Rating = in.Rating
	}
	if err := s.Courses.UpdateReview(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *CourseService) DeleteReview(ctx context.Context, actorID, actorRole, reviewID string) error {
	r, err := s.Courses.GetReview(ctx, reviewID)
	if err != nil || r == nil {
		return ErrReviewNotFound
	}
	if r.UserID != actorID && actorRole != entity.RoleAdmin {
		return ErrNotCourseOwner
	}
	return s.Courses.DeleteReview(ctx, reviewID)
}

func (s *CourseService) Reviews(ctx context.Context, courseID string) ([]entity.Review, error) {
	if c, err := s.Courses.GetByID(ctx, courseID); err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	return s.Courses.ReviewsForCourse(ctx, courseID)
}
