package handlers

import (
	"context"
	"fmt"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
	repo "github.com/campnet-io/campnet-backend/internal/domain/repository"
)

type stubBus struct{}

func (stubBus) Publish(ctx context.Context, ev event.Event) {}
func (stubBus) Subscribe(h event.Handler)                   {}

// fakeDirectory backs only the lookups the follow handlers reach; the
// embedded interface panics on anything else.
type fakeDirectory struct {
	repo.UserRepository
	users map[string]*entity.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

type fakeLedger struct {
	edges   map[string]*entity.FollowEdge
	pending map[string][]entity.FollowRequest
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		edges:   map[string]*entity.FollowEdge{},
		pending: map[string][]entity.FollowRequest{},
	}
}

func edgeKey(by, to string) string { return by + "|" + to }

func (f *fakeLedger) Create(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	key := edgeKey(by, to)
	if _, ok := f.edges[key]; ok {
		return nil, repo.ErrDuplicateFollow
	}
	e := &entity.FollowEdge{ID: "edge-" + key, ByID: by, ToID: to, Status: entity.FollowPending}
	f.edges[key] = e
	return e, nil
}

func (f *fakeLedger) Get(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	return f.edges[edgeKey(by, to)], nil
}

func (f *fakeLedger) PendingForReceiver(ctx context.Context, userID string) ([]entity.FollowRequest, error) {
	return f.pending[userID], nil
}

func (f *fakeLedger) Accept(ctx context.Context, by, to string) (*entity.FollowEdge, error) {
	e, ok := f.edges[edgeKey(by, to)]
	if !ok {
		return nil, nil
	}
	e.Status = entity.FollowAccepted
	return e, nil
}

func (f *fakeLedger) Delete(ctx context.Context, by, to string) (bool, error) {
	key := edgeKey(by, to)
	if _, ok := f.edges[key]; !ok {
		return false, nil
	}
	delete(f.edges, key)
	return true, nil
}

type fakeInbox struct {
	items map[string]*entity.Notification
}

func newFakeInbox() *fakeInbox {
	return &fakeInbox{items: map[string]*entity.Notification{}}
}

func (f *fakeInbox) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("notif-%d", len(f.items)+1)
	}
	f.items[n.ID] = n
	return nil
}

func (f *fakeInbox) Unread(ctx context.Context, receiverID, typeFilter string) ([]entity.Notification, error) {
	var out []entity.Notification
	for _, n := range f.items {
		if n.ReceiverID != receiverID || n.MarkRead {
			continue
		}
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeInbox) MarkRead(ctx context.Context, id string) (*entity.Notification, error) {
	n, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	n.MarkRead = true
	return n, nil
}

func (f *fakeInbox) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.items {
		if n.SenderID == userID || n.ReceiverID == userID {
			n.MarkRead = true
		}
	}
	return nil
}
