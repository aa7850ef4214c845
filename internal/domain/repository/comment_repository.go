package repository

import (
	"context"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// CommentRepository stores course comments and their replies.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	UpdateBody(ctx context.Context, id, body string) (*entity.Comment, error)

	// Delete removes the comment and its replies.
	Delete(ctx context.Context, id string) error

	// ForCourse returns top-level comments for the course with sender
	// profiles attached and replies grouped under their parents.
	ForCourse(ctx context.Context, courseID string) ([]entity.Comment, error)
}
