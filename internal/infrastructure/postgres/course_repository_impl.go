package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/repository"
)

const courseColumns = `id, name, description, owner_id, weeks, tuition, minimum_skill, created_at, updated_at`

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.Weeks, &c.Tuition,
		&c.MinimumSkill, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO courses (name, description, owner_id, weeks, tuition, minimum_skill)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Description, c.OwnerID, c.Weeks, c.Tuition, c.MinimumSkill).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE courses
		SET name = $1, description = $2, weeks = $3, tuition = $4, minimum_skill = $5, updated_at = $6
		WHERE id = $7
	`, c.Name, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}

func (r *CourseRepository) List(ctx context.Context) ([]entity.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Course{}
	for rows.Next() {
		c := entity.Course{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.OwnerID, &c.Weeks, &c.Tuition,
			&c.MinimumSkill, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CourseRepository) Enroll(ctx context.Context, courseID, userID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO course_enrollments (course_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, courseID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *CourseRepository) Enrolments(ctx context.Context, courseID string) ([]entity.UserRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.avatar_url
		FROM course_enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = $1
		ORDER BY e.created_at
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := []entity.UserRef{}
	for rows.Next() {
		ref := entity.UserRef{}
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email, &ref.Phone, &ref.Avatar); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (r *CourseRepository) CreateReview(ctx context.Context, rv *entity.Review) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (course_id, user_id, title, body, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rv.CourseID, rv.UserID, rv.Title, rv.Text, rv.Rating).Scan(&rv.ID, &rv.CreatedAt)
}

func (r *CourseRepository) GetReview(ctx context.Context, id string) (*entity.Review, error) {
	rv := &entity.Review{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, user_id, title, body, rating, created_at
		FROM reviews WHERE id = $1
	`, id).Scan(&rv.ID, &rv.CourseID, &rv.UserID, &rv.Title, &rv.Text, &rv.Rating, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *CourseRepository) UpdateReview(ctx context.Context, rv *entity.Review) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE reviews SET title = $1, body = $2, rating = $3 WHERE id = $4
	`, rv.Title, rv.Text, rv.Rating, rv.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CourseRepository) DeleteReview(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}

func (r *CourseRepository) ReviewsForCourse(ctx context.Context, courseID string) ([]entity.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, user_id, title, body, rating, created_at
		FROM reviews WHERE course_id = $1
		ORDER BY created_at DESC
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Review{}
	for rows.Next() {
		rv := entity.Review{}
		if err := rows.Scan(&rv.ID, &rv.CourseID, &rv.UserID, &rv.Title, &rv.Text, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
