package application

import (
	"context"
	"testing"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
)

func newFollowFixture() (*FollowService, *fakeUserRepo, *fakeFollowRepo, *recordBus) {
	users := newFakeUserRepo()
	follows := newFakeFollowRepo(users)
	bus := &recordBus{}
	svc := NewFollowService(follows, users, bus, nil)
	return svc, users, follows, bus
}

func TestFollowCreatesPendingEdgeAndEvent(t *testing.T) {
	svc, users, follows, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")

	fr, err := svc.Follow(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if fr.Edge.Status != entity.FollowPending {
		t.Fatalf("edge status = %q, want PENDING", fr.Edge.Status)
	}
	if fr.Edge.ByID != alice.ID || fr.Edge.ToID != bob.ID {
		t.Fatalf("edge endpoints = (%s, %s), want (%s, %s)", fr.Edge.ByID, fr.Edge.ToID, alice.ID, bob.ID)
	}
	if fr.By.Name != "alice" {
		t.Fatalf("requester ref name = %q, want alice", fr.By.Name)
	}

	if len(bus.events) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.events))
	}
	ev, ok := bus.events[0].(event.FollowRequested)
	if !ok {
		t.Fatalf("event type = %T, want FollowRequested", bus.events[0])
	}
	if ev.TargetID != bob.ID || ev.Requester.ID != alice.ID {
		t.Fatalf("event addressed (%s -> %s), want (%s -> %s)", ev.Requester.ID, ev.TargetID, alice.ID, bob.ID)
	}
	if got, _ := follows.Get(context.Background(), alice.ID, bob.ID); got == nil {
		t.Fatal("edge not persisted")
	}
}

func TestFollowSelfRejected(t *testing.T) {
	svc, users, _, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, alice.ID); err != ErrSelfFollow {
		t.Fatalf("err = %v, want ErrSelfFollow", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("self-follow published %d events, want 0", len(bus.events))
	}
}

func TestFollowMissingTarget(t *testing.T) {
	svc, users, _, _ := newFollowFixture()
	alice := users.add("alice", "alice@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, "user-999"); err != ErrTargetNotFound {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestFollowDuplicateRejected(t *testing.T) {
	svc, users, _, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("first Follow: %v", err)
	}
	if _, err := svc.Follow(context.Background(), alice.ID, bob.ID); err != ErrDuplicateFollow {
		t.Fatalf("second Follow err = %v, want ErrDuplicateFollow", err)
	}
	if len(bus.events) != 1 {
		t.Fatalf("published %d events, want 1 (duplicate must not emit)", len(bus.events))
	}
}

func TestResolveAcceptLinksBothFollowerSets(t *testing.T) {
	svc, users, follows, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	edge, err := svc.Resolve(context.Background(), alice.ID, bob.ID, entity.FollowAccepted)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if edge == nil || edge.Status != entity.FollowAccepted {
		t.Fatalf("edge = %+v, want ACCEPTED", edge)
	}

	// both directions linked
	bobFollowers, _ := users.Followers(context.Background(), bob.ID)
	aliceFollowers, _ := users.Followers(context.Background(), alice.ID)
	if len(bobFollowers) != 1 || bobFollowers[0].ID != alice.ID {
		t.Fatalf("bob followers = %+v, want [alice]", bobFollowers)
	}
	if len(aliceFollowers) != 1 || aliceFollowers[0].ID != bob.ID {
		t.Fatalf("alice followers = %+v, want [bob]", aliceFollowers)
	}
	if len(follows.linked) != 2 {
		t.Fatalf("recorded %d follower links, want 2", len(follows.linked))
	}

	resolved, ok := bus.events[1].(event.FollowResolved)
	if !ok {
		t.Fatalf("second event = %T, want FollowResolved", bus.events[1])
	}
	if resolved.RequesterID != alice.ID || resolved.Decision != entity.FollowAccepted {
		t.Fatalf("resolved event = %+v", resolved)
	}
	if resolved.Edge == nil {
		t.Fatal("accepted event must carry the edge")
	}
}

func TestResolveRejectDeletesEdge(t *testing.T) {
	svc, users, follows, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	edge, err := svc.Resolve(context.Background(), alice.ID, bob.ID, entity.FollowRejected)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if edge != nil {
		t.Fatalf("rejected resolve returned edge %+v, want nil", edge)
	}
	if got, _ := follows.Get(context.Background(), alice.ID, bob.ID); got != nil {
		t.Fatal("edge still present after rejection")
	}
	if len(follows.linked) != 0 {
		t.Fatal("rejection must not touch follower sets")
	}

	resolved, ok := bus.events[1].(event.FollowResolved)
	if !ok {
		t.Fatalf("second event = %T, want FollowResolved", bus.events[1])
	}
	if resolved.Decision != entity.FollowRejected || resolved.Edge != nil {
		t.Fatalf("resolved event = %+v, want REJECTED with nil edge", resolved)
	}
}

func TestResolveMissingEdgeIsQuiet(t *testing.T) {
	svc, users, _, bus := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")

	edge, err := svc.Resolve(context.Background(), alice.ID, bob.ID, entity.FollowAccepted)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if edge != nil {
		t.Fatalf("edge = %+v, want nil", edge)
	}
	if len(bus.events) != 0 {
		t.Fatalf("missing edge published %d events, want 0", len(bus.events))
	}
}

func TestRequestsListsOnlyPendingForReceiver(t *testing.T) {
	svc, users, _, _ := newFollowFixture()
	alice := users.add("alice", "alice@example.com")
	bob := users.add("bob", "bob@example.com")
	carol := users.add("carol", "carol@example.com")

	if _, err := svc.Follow(context.Background(), alice.ID, carol.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := svc.Follow(context.Background(), bob.ID, carol.ID); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), alice.ID, carol.ID, entity.FollowAccepted); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	reqs, err := svc.Requests(context.Background(), carol.ID)
	if err != nil {
		t.Fatalf("Requests: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("pending requests = %d, want 1", len(reqs))
	}
	if reqs[0].By.ID != bob.ID || reqs[0].By.Name != "bob" {
		t.Fatalf("request enriched with %+v, want bob's ref", reqs[0].By)
	}
}
