package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vigiahq/vigia/internal/models"
)

type actionRequest map[string]any

func newActionServer(t *testing.T, handle func(action string, req actionRequest) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		action, _ := req["action"].(string)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handle(action, req))
	}))
}

func TestLoginSuccess(t *testing.T) {
	srv := newActionServer(t, func(action string, req actionRequest) any {
		if action != "login" {
			t.Fatalf("unexpected action %q", action)
		}
		if req["usuario"] != "ana" || req["password"] != "secreto" {
			return map[string]any{"ok": false, "error": "invalid credentials"}
		}
		return map[string]any{"ok": true, "session": models.Session{Token: "tok-1", Name: "ana", CanDashboard: true}}
	})
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	sess, err := c.Login(context.Background(), "ana", "secreto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-1" || !sess.CanDashboard {
		t.Fatalf("unexpected session %+v", sess)
	}
}

func TestLoginRejectedIsAuthError(t *testing.T) {
	srv := newActionServer(t, func(string, actionRequest) any {
		return map[string]any{"ok": false, "error": "invalid credentials"}
	})
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Login(context.Background(), "ana", "wrong")
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Message != "invalid credentials" {
		t.Fatalf("unexpected message %q", ae.Message)
	}
}

func TestSubmitAckAndNegativeAck(t *testing.T) {
	accepted := map[string]bool{}
	srv := newActionServer(t, func(action string, req actionRequest) any {
		id, _ := req["id"].(string)
		if id == "bad" {
			return map[string]any{"ok": false, "error": "rejected"}
		}
		accepted[id] = true
		return map[string]any{"ok": true}
	})
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	rec := models.SubmissionRecord{ID: "rec-1", Token: "tok", Status: models.StatusPending}
	if err := c.Submit(context.Background(), rec); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !accepted["rec-1"] {
		t.Fatalf("server did not record submission")
	}

	rec.ID = "bad"
	err := c.Submit(context.Background(), rec)
	var se *SubmitError
	if !errors.As(err, &se) {
		t.Fatalf("expected SubmitError, got %v", err)
	}
	if se.Permanent {
		t.Fatalf("wire contract has no permanent rejection, got %+v", se)
	}
}

func TestUnreachableServerIsNetError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	err := c.Submit(context.Background(), models.SubmissionRecord{ID: "rec-1"})
	var ne *NetError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetError, got %v", err)
	}
}

func TestOnline(t *testing.T) {
	srv := newActionServer(t, func(action string, _ actionRequest) any {
		return map[string]any{"ok": true, "title": "Vigía"}
	})
	c := NewClient(srv.URL, time.Second)
	if !c.Online(context.Background()) {
		t.Fatalf("expected online against live server")
	}
	srv.Close()
	if c.Online(context.Background()) {
		t.Fatalf("expected offline against closed server")
	}
}
