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

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

const userColumns = `id, email, password_hash, name, phone, role, avatar_url, verify_pin, is_verified, is_banned, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.Role,
		&u.AvatarURL, &u.VerifyPin, &u.IsVerified, &u.IsBanned,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, phone, role, avatar_url, verify_pin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.Phone, u.Role, u.AvatarURL, u.VerifyPin)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, phone = $3, avatar_url = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.Name, u.Phone, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerifyPin(ctx context.Context, id, pin string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET verify_pin = $1, updated_at = now() WHERE id = $2
	`, pin, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyByPin marks the user holding pin as verified and clears the pin.
func (r *UserRepository) VerifyByPin(ctx context.Context, pin string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_verified = TRUE, verify_pin = '', updated_at = now()
		WHERE verify_pin = $1 AND verify_pin <> ''
		RETURNING `+userColumns, pin))
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET is_banned = $1, updated_at = now() WHERE id = $2
	`, banned, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET role = $1, updated_at = now() WHERE id = $2
	`, role, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) List(ctx context.Context, f repository.ListUsersFilter) ([]entity.User, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 8
	}
	where := `WHERE ($1 = '' OR role = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users `+where, f.Role, f.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users `+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.Role, f.Search, f.PerPage, (f.Page-1)*f.PerPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u := entity.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Phone, &u.Role,
			&u.AvatarURL, &u.VerifyPin, &u.IsVerified, &u.IsBanned,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Followers(ctx context.Context, userID string) ([]entity.UserRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.phone, u.avatar_url
		FROM user_followers f
		JOIN users u ON u.id = f.follower_id
		WHERE f.user_id = $1
		ORDER BY f.created_at
	`, userID)
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

var _ repository.UserRepository = (*UserRepository)(nil)
