package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{}
	var parent sql.NullString
	if err := row.Scan(&c.ID, &c.CourseID, &c.SenderID, &parent, &c.Body, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.ParentID = parent.String
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	var parent any
	if c.ParentID != "" {
		parent = c.ParentID
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO comments (course_id, sender_id, parent_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.CourseID, c.SenderID, parent, c.Body).Scan(&c.ID, &c.CreatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		SELECT id, course_id, sender_id, parent_id, body, created_at
		FROM comments WHERE id = $1
	`, id))
}

func (r *CommentRepository) UpdateBody(ctx context.Context, id, body string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		UPDATE comments SET body = $1
		WHERE id = $2
		RETURNING id, course_id, sender_id, parent_id, body, created_at
	`, body, id))
}

// Delete removes the comment; replies go with it via the FK cascade.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (r *CommentRepository) ForCourse(ctx context.Context, courseID string) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.course_id, c.sender_id, c.parent_id, c.body, c.created_at,
		       u.id, u.name, u.phone, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.sender_id
		WHERE c.course_id = $1
		ORDER BY c.created_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ordered []entity.Comment
	for rows.Next() {
		c := entity.Comment{Sender: &entity.UserRef{}}
		var parent sql.NullString
		if err := rows.Scan(&c.ID, &c.CourseID, &c.SenderID, &parent, &c.Body, &c.CreatedAt,
			&c.Sender.ID, &c.Sender.Name, &c.Sender.Phone, &c.Sender.Avatar); err != nil {
			return nil, err
		}
		c.ParentID = parent.String
		ordered = append(ordered, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Group replies under their parent, keeping insertion order.
	byID := make(map[string]int, len(ordered))
	top := []entity.Comment{}
	for _, c := range ordered {
		if c.ParentID == "" {
			top = append(top, c)
			byID[c.ID] = len(top) - 1
		}
	}
	for _, c := range ordered {
		if c.ParentID == "" {
			continue
		}
		if i, ok := byID[c.ParentID]; ok {
			top[i].Replies = append(top[i].Replies, c)
		}
	}
	return top, nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
