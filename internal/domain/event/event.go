// Package event carries the domain events the workflows emit instead of
// writing notifications inline. Subscribers (the notification dispatcher)
// persist sink entries and trigger the realtime push; the workflows stay
// testable without a live sink.
package event

import (
	"context"
	"sync"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

// Event is a domain event published on the Bus.
type Event interface {
	Kind() string
}

// FollowRequested fires when a follow edge is created PENDING.
type FollowRequested struct {
	Requester entity.UserRef
	TargetID  string
	Edge      entity.FollowEdge
}

func (FollowRequested) Kind() string { return entity.FollowRequestEvent }

// FollowResolved fires when a pending edge is accepted or rejected.
// Edge is nil when the decision was not ACCEPTED (the edge was deleted).
type FollowResolved struct {
	Responder   entity.UserRef
	RequesterID string
	Decision    string
	Edge        *entity.FollowEdge
}

func (FollowResolved) Kind() string { return entity.FollowResponseEvent }

// CourseEnrolled fires when a user is enrolled into a course.
type CourseEnrolled struct {
	OwnerID    string
	UserID     string
	CourseID   string
	CourseName string
}

func (CourseEnrolled) Kind() string { return entity.CourseSubscribeEvent }

// Handler consumes a published event. Handlers run synchronously in
// publish order; a slow handler delays the request that published.
type Handler func(ctx context.Context, ev Event)

// Bus fans events out to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event)
	Subscribe(h Handler)
}

// Dispatcher is the in-process Bus. Publishing after the ledger and
// directory writes preserves the ledger -> directory -> notification
// ordering within one request.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	d.handlers = append(d.handlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) Publish(ctx context.Context, ev Event) {
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers))
	copy(hs, d.handlers)
	d.mu.RUnlock()
	for _, h := range hs {
		h(ctx, ev)
	}
}

var _ Bus = (*Dispatcher)(nil)
