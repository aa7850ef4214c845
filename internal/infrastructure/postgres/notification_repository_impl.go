package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO notifications (type, sender_id, receiver_id, message, redirect_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, mark_read, created_at
	`, n.Type, n.SenderID, n.ReceiverID, n.Message, n.RedirectID).Scan(&n.ID, &n.MarkRead, &n.CreatedAt)
}

func (r *NotificationRepository) Unread(ctx context.Context, receiverID, typeFilter string) ([]entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.type, n.sender_id, n.receiver_id, n.message, n.redirect_id, n.mark_read, n.created_at,
		       u.id, u.name, u.phone
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		WHERE n.receiver_id = $1 AND n.mark_read = FALSE
		  AND ($2 = '' OR n.type = $2)
		ORDER BY n.created_at DESC
	`, receiverID, typeFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Notification{}
	for rows.Next() {
		n := entity.Notification{Sender: &entity.UserRef{}}
		if err := rows.Scan(&n.ID, &n.Type, &n.SenderID, &n.ReceiverID, &n.Message, &n.RedirectID, &n.MarkRead, &n.CreatedAt,
			&n.Sender.ID, &n.Sender.Name, &n.Sender.Phone); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead is idempotent: re-marking a read entry succeeds and returns it.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (*entity.Notification, error) {
	n := &entity.Notification{}
	err := r.pool.QueryRow(ctx, `
		UPDATE notifications SET mark_read = TRUE
		WHERE id = $1
		RETURNING id, type, sender_id, receiver_id, message, redirect_id, mark_read, created_at
	`, id).Scan(&n.ID, &n.Type, &n.SenderID, &n.ReceiverID, &n.Message, &n.RedirectID, &n.MarkRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET mark_read = TRUE
		WHERE receiver_id = $1 OR sender_id = $1
	`, userID)
	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
