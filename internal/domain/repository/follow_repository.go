package repository

import (
	"context"
	"errors"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// ErrDuplicateFollow is returned when an edge already exists for (by, to),
// pending or accepted.
var ErrDuplicateFollow = errors.New("follow request already exists")

// FollowRepository is the follow ledger: durable storage and lookup of
// directed follow edges.
type FollowRepository interface {
	// Create inserts a PENDING edge. ErrDuplicateFollow when an edge for
	// (by, to) already exists.
	Create(ctx context.Context, by, to string) (*entity.FollowEdge, error)

	// Get returns the edge for (by, to), or nil when absent.
	Get(ctx context.Context, by, to string) (*entity.FollowEdge, error)

	// PendingForReceiver returns all PENDING edges addressed to userID,
	// enriched with the requester's public profile.
	PendingForReceiver(ctx context.Context, userID string) ([]entity.FollowRequest, error)

	// Accept flips the (by, to) edge to ACCEPTED and records the mutual
	// follower linkage, all in one transaction. Returns nil (no error)
	// when no edge matches.
	Accept(ctx context.Context, by, to string) (*entity.FollowEdge, error)

	// Delete removes the (by, to) edge. Reports whether an edge existed.
	Delete(ctx context.Context, by, to string) (bool, error)
}
