package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vigiahq/vigia/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := []User{
		{Name: "ana", PassHash: hash, CanDashboard: true},
		{Name: "luis", PassHash: hash},
	}
	rt := NewRouter(users, []byte("test-secret"), AppConfig{Title: "Vigía Test", Regions: []string{"central"}})
	mux := http.NewServeMux()
	rt.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body map[string]any) map[string]any {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	res, err := srv.Client().Post(srv.URL, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = res.Body.Close() }()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func login(t *testing.T, srv *httptest.Server, user, pass string) map[string]any {
	return post(t, srv, map[string]any{"action": "login", "usuario": user, "password": pass})
}

func token(t *testing.T, srv *httptest.Server, user string) string {
	t.Helper()
	res := login(t, srv, user, "secreto")
	if res["ok"] != true {
		t.Fatalf("login failed: %v", res)
	}
	sess := res["session"].(map[string]any)
	return sess["token"].(string)
}

func sampleSubmission(id, tok string) map[string]any {
	score := 2
	return map[string]any{
		"action": "submit",
		"token":  tok,
		"id":     id,
		"response": models.SurveyResponse{
			CapturedAt:    time.Now().UTC(),
			InformantType: "community-leader",
			Region:        "central",
			Community:     "san-pedro",
			VenueType:     "market",
			TensionLevel:  2,
			Trend:         models.TrendUnchanged,
			Certainty:     models.CertaintyHigh,
			Signals:       []models.SignalCode{models.SignalAdvisory},
			Urgency:       models.UrgencyRoutine,
			Topic:         "water",
			Origin:        models.OriginFirsthand,
			Action:        "monitor",
		},
		"semaforo": models.ClassificationResult{
			Color: models.ColorGreen, Score: &score, Triggers: []string{}, Reliability: 1.0,
		},
	}
}

func TestLoginIssuesSession(t *testing.T) {
	srv := newTestServer(t)

	res := login(t, srv, "ana", "secreto")
	if res["ok"] != true {
		t.Fatalf("expected ok login, got %v", res)
	}
	sess := res["session"].(map[string]any)
	if sess["token"] == "" || sess["can_dashboard"] != true {
		t.Fatalf("unexpected session %v", sess)
	}

	res = login(t, srv, "ana", "wrong")
	if res["ok"] != false || res["error"] == "" {
		t.Fatalf("expected rejected login, got %v", res)
	}
	res = login(t, srv, "ghost", "secreto")
	if res["ok"] != false {
		t.Fatalf("expected rejected login for unknown user, got %v", res)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	srv := newTestServer(t)
	tok := token(t, srv, "ana")

	res := post(t, srv, sampleSubmission("rec-1", tok))
	if res["ok"] != true || res["duplicate"] == true {
		t.Fatalf("first submit should store, got %v", res)
	}

	res = post(t, srv, sampleSubmission("rec-1", tok))
	if res["ok"] != true {
		t.Fatalf("replayed submit must still be a positive ack, got %v", res)
	}
	if res["duplicate"] != true {
		t.Fatalf("replayed submit should be flagged duplicate, got %v", res)
	}
}

func TestSubmitRequiresValidToken(t *testing.T) {
	srv := newTestServer(t)
	res := post(t, srv, sampleSubmission("rec-1", "bogus"))
	if res["ok"] != false {
		t.Fatalf("expected rejection, got %v", res)
	}
}

func TestDashboardSummaryCapability(t *testing.T) {
	srv := newTestServer(t)
	anaTok := token(t, srv, "ana")
	luisTok := token(t, srv, "luis")

	post(t, srv, sampleSubmission("rec-1", anaTok))

	res := post(t, srv, map[string]any{"action": "dashboard_summary", "token": anaTok, "window_days": 30})
	if res["ok"] != true {
		t.Fatalf("dashboard should be allowed for ana, got %v", res)
	}
	summary := res["summary"].(map[string]any)
	if summary["responses"].(float64) != 1 {
		t.Fatalf("expected one response in summary, got %v", summary)
	}

	res = post(t, srv, map[string]any{"action": "dashboard_summary", "token": luisTok})
	if res["ok"] != false {
		t.Fatalf("dashboard must be denied without the capability, got %v", res)
	}
}

func TestConfigAndUnknownAction(t *testing.T) {
	srv := newTestServer(t)

	res := post(t, srv, map[string]any{"action": "config"})
	if res["ok"] != true || res["title"] != "Vigía Test" {
		t.Fatalf("unexpected config %v", res)
	}

	res = post(t, srv, map[string]any{"action": "frobnicate"})
	if res["ok"] != false {
		t.Fatalf("unknown action must fail, got %v", res)
	}
}
