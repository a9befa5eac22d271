package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/vigiahq/vigia/internal/models"
)

const defaultTimeout = 20 * time.Second

// Client talks to the remote collection endpoint: a single URL accepting
// POSTed JSON bodies with an "action" discriminator.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a client for the endpoint URL. timeout bounds each call;
// zero picks a default. A stuck call is the transport's failure to report,
// not the queue's.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: baseURL, httpc: &http.Client{Timeout: timeout}}
}

func (c *Client) call(ctx context.Context, action string, body map[string]any, out any) error {
	payload := map[string]any{"action": action}
	for k, v := range body {
		payload[k] = v
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return &NetError{Op: action, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return &NetError{Op: action, Err: err}
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return &NetError{Op: action, Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &NetError{Op: action, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Login implements Transport.
func (c *Client) Login(ctx context.Context, user, password string) (*models.Session, error) {
	var res struct {
		OK      bool            `json:"ok"`
		Error   string          `json:"error"`
		Session *models.Session `json:"session"`
	}
	err := c.call(ctx, "login", map[string]any{"usuario": user, "password": password}, &res)
	if err != nil {
		return nil, err
	}
	if !res.OK || res.Session == nil {
		msg := res.Error
		if msg == "" {
			msg = "login rejected"
		}
		return nil, &AuthError{Message: msg}
	}
	return res.Session, nil
}

// Submit implements Transport. The record id is the idempotency key.
func (c *Client) Submit(ctx context.Context, rec models.SubmissionRecord) error {
	var res struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	err := c.call(ctx, "submit", map[string]any{
		"token":    rec.Token,
		"id":       rec.ID,
		"response": rec.Response,
		"semaforo": rec.Result,
	}, &res)
	if err != nil {
		return err
	}
	if !res.OK {
		msg := res.Error
		if msg == "" {
			msg = "submission rejected"
		}
		return &SubmitError{Message: msg}
	}
	return nil
}

// DashboardSummary implements Transport.
func (c *Client) DashboardSummary(ctx context.Context, token string, q SummaryQuery) (*Summary, error) {
	var res struct {
		OK      bool     `json:"ok"`
		Error   string   `json:"error"`
		Summary *Summary `json:"summary"`
	}
	err := c.call(ctx, "dashboard_summary", map[string]any{
		"token":          token,
		"window_days":    q.WindowDays,
		"informant_type": q.InformantType,
		"community":      q.Community,
	}, &res)
	if err != nil {
		return nil, err
	}
	if !res.OK || res.Summary == nil {
		msg := res.Error
		if msg == "" {
			msg = "dashboard query rejected"
		}
		return nil, &AuthError{Message: msg}
	}
	return res.Summary, nil
}

// Config implements Transport.
func (c *Client) Config(ctx context.Context) (map[string]any, error) {
	var res map[string]any
	if err := c.call(ctx, "config", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Online probes connectivity with a short config call. False means the sync
// engine should abort without side effects.
func (c *Client) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := c.Config(probeCtx)
	return err == nil
}

var _ Transport = (*Client)(nil)
