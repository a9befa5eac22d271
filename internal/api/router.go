// Package api implements the remote collection endpoint: a single POST
// route dispatching on the "action" field of the JSON body, matching the
// wire contract the field client speaks.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vigiahq/vigia/internal/auth"
	"github.com/vigiahq/vigia/internal/models"
)

// User is a provisioned login with a bcrypt password hash.
type User struct {
	Name         string
	PassHash     []byte
	CanDashboard bool
}

// AppConfig is the cosmetic configuration served by the config action.
type AppConfig struct {
	Title   string   `json:"title"`
	Regions []string `json:"regions"`
}

// Router serves the action-dispatch API.
type Router struct {
	store    *memoryStore
	users    map[string]User
	secret   []byte
	tokenTTL time.Duration
	appCfg   AppConfig
	now      func() time.Time
}

// NewRouter builds a router for the given users and signing secret.
func NewRouter(users []User, secret []byte, appCfg AppConfig) *Router {
	byName := make(map[string]User, len(users))
	for _, u := range users {
		byName[u.Name] = u
	}
	if appCfg.Title == "" {
		appCfg.Title = "Vigía"
	}
	return &Router{
		store:    newMemoryStore(),
		users:    byName,
		secret:   secret,
		tokenTTL: 30 * 24 * time.Hour,
		appCfg:   appCfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register mounts the API on mux.
func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", rt.handleAction)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"ok": true, "name": rt.appCfg.Title, "received": rt.store.count()})
	})
}

type actionEnvelope struct {
	Action   string                       `json:"action"`
	Usuario  string                       `json:"usuario"`
	Password string                       `json:"password"`
	Token    string                       `json:"token"`
	ID       string                       `json:"id"`
	Response *models.SurveyResponse       `json:"response"`
	Result   *models.ClassificationResult `json:"semaforo"`

	WindowDays    int    `json:"window_days"`
	InformantType string `json:"informant_type"`
	Community     string `json:"community"`
}

func (rt *Router) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req actionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]any{"ok": false, "error": "malformed request"})
		return
	}
	switch req.Action {
	case "login":
		rt.handleLogin(w, req)
	case "submit":
		rt.handleSubmit(w, req)
	case "dashboard_summary":
		rt.handleDashboardSummary(w, req)
	case "config":
		writeJSON(w, map[string]any{"ok": true, "title": rt.appCfg.Title, "regions": rt.appCfg.Regions})
	default:
		writeJSON(w, map[string]any{"ok": false, "error": "unknown action"})
	}
}

func (rt *Router) handleLogin(w http.ResponseWriter, req actionEnvelope) {
	u, ok := rt.users[req.Usuario]
	if !ok || bcrypt.CompareHashAndPassword(u.PassHash, []byte(req.Password)) != nil {
		writeJSON(w, map[string]any{"ok": false, "error": "invalid credentials"})
		return
	}
	tok, err := auth.SignToken(rt.secret, u.Name, u.CanDashboard, rt.tokenTTL)
	if err != nil {
		log.Printf("api: sign token for %s: %v", u.Name, err)
		writeJSON(w, map[string]any{"ok": false, "error": "token issuance failed"})
		return
	}
	writeJSON(w, map[string]any{
		"ok":      true,
		"session": models.Session{Token: tok, Name: u.Name, CanDashboard: u.CanDashboard},
	})
}

func (rt *Router) handleSubmit(w http.ResponseWriter, req actionEnvelope) {
	claims, err := auth.ParseToken(rt.secret, req.Token)
	if err != nil {
		writeJSON(w, map[string]any{"ok": false, "error": "invalid token"})
		return
	}
	if req.ID == "" || req.Response == nil || req.Result == nil {
		writeJSON(w, map[string]any{"ok": false, "error": "incomplete submission"})
		return
	}
	_, duplicate := rt.store.add(&StoredSubmission{
		ID:         req.ID,
		ReceivedAt: rt.now(),
		By:         claims.Name,
		Response:   *req.Response,
		Result:     *req.Result,
	})
	// A replayed id is a positive ack: the record was already accepted.
	writeJSON(w, map[string]any{"ok": true, "duplicate": duplicate})
}

func (rt *Router) handleDashboardSummary(w http.ResponseWriter, req actionEnvelope) {
	claims, err := auth.ParseToken(rt.secret, req.Token)
	if err != nil {
		writeJSON(w, map[string]any{"ok": false, "error": "invalid token"})
		return
	}
	if !claims.Dash {
		writeJSON(w, map[string]any{"ok": false, "error": "not authorized"})
		return
	}
	q := SummaryQuery{
		WindowDays:    req.WindowDays,
		InformantType: req.InformantType,
		Community:     req.Community,
	}
	writeJSON(w, map[string]any{"ok": true, "summary": BuildSummary(rt.store.list(), q, rt.now())})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
