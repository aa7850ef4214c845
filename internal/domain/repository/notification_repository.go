package repository

import (
	"context"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// NotificationRepository is the append-only notification sink.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error

	// Unread returns unread entries addressed to receiverID, newest first,
	// optionally narrowed by type, with sender profiles attached.
	Unread(ctx context.Context, receiverID, typeFilter string) ([]entity.Notification, error)

	// MarkRead marks one entry read and returns it. Marking an already-read
	// entry is a no-op success; nil when the entry does not exist.
	MarkRead(ctx context.Context, id string) (*entity.Notification, error)

	// MarkAllRead marks read every entry where userID is sender or receiver.
	MarkAllRead(ctx context.Context, userID string) error
}
