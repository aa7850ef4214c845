package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment author")
	ErrBadParent       = errors.New("parent comment not found on this course")
)

// CommentService manages per-course comment threads. Threads are one level
// deep: a reply's parent must be a top-level comment on the same course.
type CommentService struct {
	Comments repo.CommentRepository
	Courses  repo.CourseRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, courses repo.CourseRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Courses: courses, Logger: logger}
}

// Create posts a comment, or a reply when parentID is set.
func (s *CommentService) Create(ctx context.Context, senderID, courseID, parentID, body string) (*entity.Comment, error) {
	if c, err := s.Courses.GetByID(ctx, courseID); err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	if parentID != "" {
		parent, err := s.Comments.GetByID(ctx, parentID)
		if err != nil || parent == nil || parent.CourseID != courseID || parent.IsReply() {
			return nil, ErrBadParent
		}
	}
	cm := &entity.Comment{
		CourseID: courseID,
		SenderID: senderID,
		ParentID: parentID,
		Body:     body,
	}
	if err := s.Comments.Create(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// Update edits a comment body. Only the author (or an admin) may edit.
func (s *CommentService) Update(ctx context.Context, actorID, actorRole, commentID, body string) (*entity.Comment, error) {
	cm, err := s.Comments.GetByID(ctx, commentID)
	if err != nil || cm == nil {
		return nil, ErrCommentNotFound
	}
	if cm.SenderID != actorID && actorRole != entity.RoleAdmin {
		return nil, ErrNotCommentOwner
	}
	return s.Comments.UpdateBody(ctx, commentID, body)
}

// Delete removes a comment and, for top-level comments, its replies.
func (s *CommentService) Delete(ctx context.Context, actorID, actorRole, commentID string) error {
	cm, err := s.Comments.GetByID(ctx, commentID)
	if err != nil || cm == nil {
		return ErrCommentNotFound
	}
	if cm.SenderID != actorID && actorRole != entity.RoleAdmin {
		return ErrNotCommentOwner
	}
	return s.Comments.Delete(ctx, commentID)
}

// ForCourse returns the course's comment thread, replies nested under their
// parents.
func (s *CommentService) ForCourse(ctx context.Context, courseID string) ([]entity.Comment, error) {
	if c, err := s.Courses.GetByID(ctx, courseID); err != nil || c == nil {
		return nil, ErrCourseNotFound
	}
	return s.Comments.ForCourse(ctx, courseID)
}
