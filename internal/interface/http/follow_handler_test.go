package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/internal/domain/entity"
)

type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func followTestRouter(svc *app.FollowService, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFollowHandler(svc, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", uid) })
	r.POST("/follow/user", h.Send)
	r.GET("/follow", h.Requests)
	r.POST("/follow", h.Resolve)
	return r
}

func TestSendFollowResponseCarriesFollowKey(t *testing.T) {
	requester := uuid.NewString()
	target := uuid.NewString()
	dir := &fakeDirectory{users: map[string]*entity.User{
		requester: {ID: requester, Name: "alice", Email: "alice@example.com"},
		target:    {ID: target, Name: "bob", Email: "bob@example.com"},
	}}
	svc := app.NewFollowService(newFakeLedger(), dir, stubBus{}, nil)
	r := followTestRouter(svc, requester)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/follow/user", strings.NewReader(`{"id":"`+target+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, ok := body.Data["follow"]
	if !ok {
		t.Fatalf("data missing follow key: %s", rec.Body.String())
	}
	var fr entity.FollowRequest
	if err := json.Unmarshal(raw, &fr); err != nil {
		t.Fatalf("unmarshal follow: %v", err)
	}
	if fr.Edge.Status != entity.FollowPending || fr.Edge.ToID != target {
		t.Fatalf("follow = %+v", fr)
	}
}

func TestRequestsResponseCarriesFollowRequestsKey(t *testing.T) {
	uid := uuid.NewString()
	svc := app.NewFollowService(newFakeLedger(), nil, stubBus{}, nil)
	r := followTestRouter(svc, uid)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/follow", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	raw, ok := body.Data["followRequests"]
	if !ok {
		t.Fatalf("data missing followRequests key: %s", rec.Body.String())
	}
	// empty inbox still serializes the key as an empty array
	if string(raw) != "[]" {
		t.Fatalf("followRequests = %s", raw)
	}
}

func TestResolveMissingEdgeResponseShape(t *testing.T) {
	requester := uuid.NewString()
	responder := uuid.NewString()
	dir := &fakeDirectory{users: map[string]*entity.User{
		responder: {ID: responder, Name: "bob", Email: "bob@example.com"},
	}}
	svc := app.NewFollowService(newFakeLedger(), dir, stubBus{}, nil)
	r := followTestRouter(svc, responder)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/follow",
		strings.NewReader(`{"followById":"`+requester+`","status":"REJECTED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(body.Data["follow"]) != "null" {
		t.Fatalf("follow = %s", body.Data["follow"])
	}
	if string(body.Data["status"]) != `"REJECTED"` {
		t.Fatalf("status = %s", body.Data["status"])
	}
}

func TestResolveAcceptResponseCarriesFollowKey(t *testing.T) {
	requester := uuid.NewString()
	responder := uuid.NewString()
	dir := &fakeDirectory{users: map[string]*entity.User{
		responder: {ID: responder, Name: "bob", Email: "bob@example.com"},
	}}
	ledger := newFakeLedger()
	if _, err := ledger.Create(context.Background(), requester, responder); err != nil {
		t.Fatalf("seed edge: %v", err)
	}
	svc := app.NewFollowService(ledger, dir, stubBus{}, nil)
	r := followTestRouter(svc, responder)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/follow",
		strings.NewReader(`{"followById":"`+requester+`","status":"ACCEPTED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var edge entity.FollowEdge
	if err := json.Unmarshal(body.Data["follow"], &edge); err != nil {
		t.Fatalf("unmarshal follow: %v", err)
	}
	if edge.Status != entity.FollowAccepted {
		t.Fatalf("edge = %+v", edge)
	}
}
