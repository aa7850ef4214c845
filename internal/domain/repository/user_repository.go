package repository

import (
	"context"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// ListUsersFilter narrows the admin user listing.
type ListUsersFilter struct {
	Role    string // "", "user", "publisher", "admin"
	Search  string // matches name or email, case-insensitive
	Page    int    // 1-based
	PerPage int
}

// UserRepository defines the interface for user directory operations,
// including the denormalized follower set.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerifyPin(ctx context.Context, id, pin string) error
	VerifyByPin(ctx context.Context, pin string) (*entity.User, error)
	SetBanned(ctx context.Context, id string, banned bool) error
	SetRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListUsersFilter) ([]entity.User, int, error)

	// Follower set reads; writes happen inside the follow ledger's
	// accept transaction.
	Followers(ctx context.Context, userID string) ([]entity.UserRef, error)
}
