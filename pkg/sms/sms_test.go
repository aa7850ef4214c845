package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsMessage(t *testing.T) {
	var got message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "campnet")
	if err := c.Send(context.Background(), "Your pin is 1234", "+15551230001"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got.Message != "Your pin is 1234" || got.PhoneNumber != "+15551230001" || got.Sender != "campnet" {
		t.Fatalf("payload = %+v", got)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("auth header = %q", auth)
	}
}

func TestSendGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "campnet")
	if err := c.Send(context.Background(), "hello", "+15551230001"); err == nil {
		t.Fatal("non-2xx response must error")
	}
}
