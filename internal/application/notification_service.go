package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
	"github.com/campnet-io/campnet-backend/internal/interface/realtime"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService owns the append-only notification sink and subscribes
// to domain events: each event becomes one sink entry plus a realtime push
// on the Redis notify channel.
type NotificationService struct {
	Repo    repo.NotificationRepository
	Redis   *redis.Client
	Channel string
	Logger  *logrus.Logger
}

func NewNotificationService(r repo.NotificationRepository, rdb *redis.Client, channel string, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Repo: r, Redis: rdb, Channel: channel, Logger: logger}
}

// HandleEvent is the event.Bus subscriber. Sink or push failures are logged,
// not surfaced: by the time an event fires the ledger and directory writes
// have already committed.
func (s *NotificationService) HandleEvent(ctx context.Context, ev event.Event) {
	var n *entity.Notification
	switch e := ev.(type) {
	case event.FollowRequested:
		n = &entity.Notification{
			Type:       entity.FollowRequestEvent,
			SenderID:   e.Requester.ID,
			ReceiverID: e.TargetID,
			Message:    fmt.Sprintf("@%s sent you a follow request.", e.Requester.Name),
			RedirectID: e.Requester.ID,
		}
	case event.FollowResolved:
		verb := "declined"
		if e.Decision == entity.FollowAccepted {
			verb = "accepted"
		}
		n = &entity.Notification{
			Type:       entity.FollowResponseEvent,
			SenderID:   e.Responder.ID,
			ReceiverID: e.RequesterID,
			Message:    fmt.Sprintf("@%s %s your follow request.", e.Responder.Name, verb),
			RedirectID: e.Responder.ID,
		}
	case event.CourseEnrolled:
		n = &entity.Notification{
			Type:       entity.CourseSubscribeEvent,
			SenderID:   e.OwnerID,
			ReceiverID: e.UserID,
			Message:    fmt.Sprintf("You are subscribed to course %s successfully", e.CourseName),
			RedirectID: e.CourseID,
		}
	default:
		return
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("type", n.Type).Error("notification write failed")
		}
		return
	}
	s.push(ctx, n)
}

// push publishes the notification as a typed realtime envelope; the
// websocket hub bridge fans it out to connected clients. Best effort only.
func (s *NotificationService) push(ctx context.Context, n *entity.Notification) {
	if s.Redis == nil || s.Channel == "" {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	env := realtime.Envelope{Event: realtime.EventReceive, Kind: n.Type, Payload: payload}
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := s.Redis.Publish(ctx, s.Channel, b).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("channel", s.Channel).Warn("realtime publish failed")
	}
}

// Unread lists unread notifications for userID, newest first, optionally
// narrowed to one event type.
func (s *NotificationService) Unread(ctx context.Context, userID, typeFilter string) ([]entity.Notification, error) {
	return s.Repo.Unread(ctx, userID, typeFilter)
}

// MarkRead marks one notification read. Idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, id string) (*entity.Notification, error) {
	n, err := s.Repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// MarkAllRead marks read every entry where userID is sender or receiver.
// Calling it on an empty set succeeds.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}
