package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/repository"
)

// FollowRepository is the follow ledger backed by the follows table plus the
// denormalized user_followers set.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Create(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	e := &entity.FollowEdge{ByID: by, ToID: to, Status: entity.FollowPending}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO follows (by_id, to_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, by, to, entity.FollowPending).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on (by_id, to_id)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicateFollow
		}
		return nil, err
	}
	return e, nil
}

func (r *FollowRepository) Get(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	e := &entity.FollowEdge{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, by_id, to_id, status, created_at
		FROM follows WHERE by_id = $1 AND to_id = $2
	`, by, to).Scan(&e.ID, &e.ByID, &e.ToID, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *FollowRepository) PendingForReceiver(ctx context.Context, userID string) ([]entity.FollowRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.by_id, f.to_id, f.status, f.created_at,
		       u.id, u.name, u.email
		FROM follows f
		JOIN users u ON u.id = f.by_id
		WHERE f.to_id = $1 AND f.status = $2
		ORDER BY f.created_at
	`, userID, entity.FollowPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []entity.FollowRequest{}
	for rows.Next() {
		fr := entity.FollowRequest{}
		if err := rows.Scan(&fr.Edge.ID, &fr.Edge.ByID, &fr.Edge.ToID, &fr.Edge.Status, &fr.Edge.CreatedAt,
			&fr.By.ID, &fr.By.Name, &fr.By.Email); err != nil {
			return nil, err
		}
		reqs = append(reqs, fr)
	}
	return reqs, rows.Err()
}

// Accept flips the edge to ACCEPTED and records the mutual follower linkage.
// The edge update and both user_followers rows commit together; a crash
// cannot leave the denormalized set referencing a pending edge.
func (r *FollowRepository) Accept(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	e := &entity.FollowEdge{}
	err = tx.QueryRow(ctx, `
		UPDATE follows SET status = $1
		WHERE by_id = $2 AND to_id = $3
		RETURNING id, by_id, to_id, status, created_at
	`, entity.FollowAccepted, by, to).Scan(&e.ID, &e.ByID, &e.ToID, &e.Status, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// Acceptance links both directions: the requester appears in the
	// target's follower set and vice versa.
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_followers (user_id, follower_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`, to, by); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *FollowRepository) Delete(ctx context.Context, by, to string) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE by_id = $1 AND to_id = $2`, by, to)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
