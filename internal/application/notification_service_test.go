package application

import (
	"context"
	"testing"

	"github.com/campnet-io/campnet-backend/internal/domain/entity"
	"github.com/campnet-io/campnet-backend/internal/domain/event"
)

func newNotifFixture() (*NotificationService, *fakeNotifRepo) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo, nil, "", nil)
	return svc, repo
}

func TestHandleFollowRequestedPersistsNotification(t *testing.T) {
	svc, repo := newNotifFixture()

	svc.HandleEvent(context.Background(), event.FollowRequested{
		Requester: entity.UserRef{ID: "user-1", Name: "alice"},
		TargetID:  "user-2",
		Edge:      entity.FollowEdge{ID: "edge-1", ByID: "user-1", ToID: "user-2", Status: entity.FollowPending},
	})

	if len(repo.items) != 1 {
		t.Fatalf("persisted %d notifications, want 1", len(repo.items))
	}
	n := repo.items[0]
	if n.Type != entity.FollowRequestEvent {
		t.Fatalf("type = %q, want %q", n.Type, entity.FollowRequestEvent)
	}
	if n.Message != "@alice sent you a follow request." {
		t.Fatalf("message = %q", n.Message)
	}
	if n.SenderID != "user-1" || n.ReceiverID != "user-2" || n.RedirectID != "user-1" {
		t.Fatalf("addressing = sender %s receiver %s redirect %s", n.SenderID, n.ReceiverID, n.RedirectID)
	}
	if n.MarkRead {
		t.Fatal("new notification must start unread")
	}
}

func TestHandleFollowResolvedWording(t *testing.T) {
	cases := []struct {
		decision string
		want     string
	}{
		{entity.FollowAccepted, "@bob accepted your follow request."},
		{entity.FollowRejected, "@bob declined your follow request."},
	}
	for _, tc := range cases {
		svc, repo := newNotifFixture()
		svc.HandleEvent(context.Background(), event.FollowResolved{
			Responder:   entity.UserRef{ID: "user-2", Name: "bob"},
			RequesterID: "user-1",
			Decision:    tc.decision,
		})
		if len(repo.items) != 1 {
			t.Fatalf("%s: persisted %d notifications, want 1", tc.decision, len(repo.items))
		}
		n := repo.items[0]
		if n.Message != tc.want {
			t.Fatalf("%s: message = %q, want %q", tc.decision, n.Message, tc.want)
		}
		if n.Type != entity.FollowResponseEvent || n.ReceiverID != "user-1" || n.RedirectID != "user-2" {
			t.Fatalf("%s: notification = %+v", tc.decision, n)
		}
	}
}

func TestHandleCourseEnrolled(t *testing.T) {
	svc, repo := newNotifFixture()

	svc.HandleEvent(context.Background(), event.CourseEnrolled{
		OwnerID:    "user-9",
		UserID:     "user-1",
		CourseID:   "course-1",
		CourseName: "Backend Fundamentals",
	})

	n := repo.items[0]
	if n.Type != entity.CourseSubscribeEvent {
		t.Fatalf("type = %q", n.Type)
	}
	if n.Message != "You are subscribed to course Backend Fundamentals successfully" {
		t.Fatalf("message = %q", n.Message)
	}
	if n.ReceiverID != "user-1" || n.RedirectID != "course-1" {
		t.Fatalf("addressing = receiver %s redirect %s", n.ReceiverID, n.RedirectID)
	}
}

func TestUnreadNewestFirstAndTypeFilter(t *testing.T) {
	svc, _ := newNotifFixture()
	ctx := context.Background()

	svc.HandleEvent(ctx, event.FollowRequested{
		Requester: entity.UserRef{ID: "user-1", Name: "alice"},
		TargetID:  "user-3",
	})
	svc.HandleEvent(ctx, event.FollowRequested{
		Requester: entity.UserRef{ID: "user-2", Name: "bob"},
		TargetID:  "user-3",
	})
	svc.HandleEvent(ctx, event.CourseEnrolled{
		OwnerID: "user-9", UserID: "user-3", CourseID: "course-1", CourseName: "Go",
	})

	all, err := svc.Unread(ctx, "user-3", "")
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unread = %d, want 3", len(all))
	}
	if all[0].Type != entity.CourseSubscribeEvent {
		t.Fatalf("newest first violated, first = %q", all[0].Type)
	}

	follows, err := svc.Unread(ctx, "user-3", entity.FollowRequestEvent)
	if err != nil {
		t.Fatalf("Unread filtered: %v", err)
	}
	if len(follows) != 2 {
		t.Fatalf("filtered unread = %d, want 2", len(follows))
	}
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	svc, repo := newNotifFixture()
	ctx := context.Background()

	svc.HandleEvent(ctx, event.FollowRequested{
		Requester: entity.UserRef{ID: "user-1", Name: "alice"},
		TargetID:  "user-2",
	})
	svc.HandleEvent(ctx, event.FollowResolved{
		Responder:   entity.UserRef{ID: "user-2", Name: "bob"},
		RequesterID: "user-1",
		Decision:    entity.FollowAccepted,
	})

	n, err := svc.MarkRead(ctx, repo.items[0].ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !n.MarkRead {
		t.Fatal("MarkRead did not settle the entry")
	}
	if _, err := svc.MarkRead(ctx, "notif-999"); err != ErrNotificationNotFound {
		t.Fatalf("missing id err = %v, want ErrNotificationNotFound", err)
	}

	// user-2 is sender of the first and receiver of neither; broad scope
	// settles both rows where they appear on either side.
	if err := svc.MarkAllRead(ctx, "user-2"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	for _, item := range repo.items {
		if !item.MarkRead {
			t.Fatalf("entry %s still unread after MarkAllRead", item.ID)
		}
	}

	// settling an already-settled inbox changes nothing and does not error
	before := len(repo.items)
	if err := svc.MarkAllRead(ctx, "user-2"); err != nil {
		t.Fatalf("second MarkAllRead: %v", err)
	}
	if len(repo.items) != before {
		t.Fatalf("entries = %d after repeat, want %d", len(repo.items), before)
	}
	for _, item := range repo.items {
		if !item.MarkRead {
			t.Fatalf("entry %s flipped back unread", item.ID)
		}
	}
}

func TestMarkAllReadEmptySink(t *testing.T) {
	svc, repo := newNotifFixture()

	if err := svc.MarkAllRead(context.Background(), "user-7"); err != nil {
		t.Fatalf("MarkAllRead on empty sink: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("entries = %d, want 0", len(repo.items))
	}
}

func TestHandleEventUnknownTypeIgnored(t *testing.T) {
	svc, repo := newNotifFixture()
	svc.HandleEvent(context.Background(), fakeEvent{})
	if len(repo.items) != 0 {
		t.Fatalf("unknown event persisted %d notifications", len(repo.items))
	}
}

type fakeEvent struct{}

func (fakeEvent) Kind() string { return "SOMETHING_ELSE" }
