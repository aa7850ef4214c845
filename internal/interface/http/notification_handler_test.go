package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

func notificationTestRouter(svc *app.NotificationService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(svc, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", uid) })
	r.GET("/notification", h.List)
	r.PUT("/notification", h.MarkAllRead)
	r.PUT("/notification/:id", h.MarkRead)
	return r
}

func TestListResponseCarriesNotificationsKey(t *testing.T) {
	uid := uuid.NewString()
	svc := app.NewNotificationService(newFakeInbox(), nil, "", nil)
	r := notificationTestRouter(svc, uid)

	for _, target := range []string{"/notification", "/notification?type=bogus"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", target, nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		var body envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: unmarshal: %v", target, err)
		}
		raw, ok := body.Data["notifications"]
		if !ok {
			t.Fatalf("%s: data missing notifications key: %s", target, rec.Body.String())
		}
		// an empty inbox still serializes the key as an empty array
		if string(raw) != "[]" {
			t.Fatalf("%s: notifications = %s", target, raw)
		}
	}
}

func TestMarkReadResponseCarriesNotificationKey(t *testing.T) {
	uid := uuid.NewString()
	inbox := newFakeInbox()
	n := &entity.Notification{
		Type:       entity.FollowRequestEvent,
		SenderID:   uuid.NewString(),
		ReceiverID: uid,
		Message:    "@alice sent you a follow request.",
	}
	if err := inbox.Create(context.Background(), n); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	svc := app.NewNotificationService(inbox, nil, "", nil)
	r := notificationTestRouter(svc, uid)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("PUT", "/notification/"+n.ID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, ok := body.Data["notification"]
	if !ok {
		t.Fatalf("data missing notification key: %s", rec.Body.String())
	}
	var got entity.Notification
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}
	if !got.MarkRead || got.ID != n.ID {
		t.Fatalf("notification = %+v", got)
	}
}
