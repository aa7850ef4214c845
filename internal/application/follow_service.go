package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
)

var (
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrTargetNotFound  = errors.New("target user not found")
	ErrDuplicateFollow = repo.ErrDuplicateFollow
)

// FollowService runs the follow workflow: NONE -> PENDING on request,
// PENDING -> ACCEPTED or back to NONE on resolution. The ledger write always
// precedes the follower-set update, which always precedes the notification
// event; there is no coordination across concurrent resolutions of the same
// edge.
type FollowService struct {
	Follows repo.FollowRepository
	Users   repo.UserRepository
	Bus     event.Bus
	Logger  *logrus.Logger
}

func NewFollowService(follows repo.FollowRepository, users repo.UserRepository, bus event.Bus, logger *logrus.Logger) *FollowService {
	return &FollowService{Follows: follows, Users: users, Bus: bus, Logger: logger}
}

// Follow creates a PENDING edge from requester to targetID and emits a
// FOLLOW_REQUEST_EVENT addressed to the target. The target must exist;
// duplicate requests (pending or accepted) are rejected.
func (s *FollowService) Follow(ctx context.Context, requesterID, targetID string) (*entity.FollowRequest, error) {
	if requesterID == targetID {
		return nil, ErrSelfFollow
	}
	requester, err := s.Users.GetByID(ctx, requesterID)
	if err != nil || requester == nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		return nil, ErrTargetNotFound
	}

	edge, err := s.Follows.Create(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}

	s.Bus.Publish(ctx, event.FollowRequested{
		Requester: requester.Ref(),
		TargetID:  targetID,
		Edge:      *edge,
	})

	return &entity.FollowRequest{Edge: *edge, By: requester.Ref()}, nil
}

// Requests returns the pending follow requests addressed to userID, each
// carrying the requester's name and email.
func (s *FollowService) Requests(ctx context.Context, userID string) ([]entity.FollowRequest, error) {
	return s.Follows.PendingForReceiver(ctx, userID)
}

// Resolve settles the (requesterID -> responderID) edge. ACCEPTED flips the
// edge and links both follower sets; any other decision deletes the edge
// with no follower mutation. Either way a FOLLOW_RESPONSE_EVENT goes to the
// requester. Resolving an edge that does not exist returns a nil edge, no
// error, and emits nothing.
func (s *FollowService) Resolve(ctx context.Context, requesterID, responderID, decision string) (*entity.FollowEdge, error) {
	responder, err := s.Users.GetByID(ctx, responderID)
	if err != nil || responder == nil {
		return nil, ErrUserNotFound
	}

	var edge *entity.FollowEdge
	if decision == entity.FollowAccepted {
		edge, err = s.Follows.Accept(ctx, requesterID, responderID)
		if err != nil {
			return nil, err
		}
		if edge == nil {
			return nil, nil
		}
	} else {
		deleted, err := s.Follows.Delete(ctx, requesterID, responderID)
		if err != nil {
			return nil, err
		}
		if !deleted {
			return nil, nil
		}
	}

	s.Bus.Publish(ctx, event.FollowResolved{
		Responder:   responder.Ref(),
		RequesterID: requesterID,
		Decision:    decision,
		Edge:        edge,
	})

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"by":       requesterID,
			"to":       responderID,
			"decision": decision,
		}).Debug("follow request resolved")
	}
	return edge, nil
}
