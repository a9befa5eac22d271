// Package transport defines the RPC contract with the remote collection
// endpoint and its HTTP implementation. One call is one request/response;
// submit is idempotent on the server side, keyed by the record id.
package transport

import (
	"context"
	"fmt"

	"github.com/vigiahq/vigia/internal/models"
)

// NetError marks a transient transport failure. During sync it drives the
// leave-pending-retry-later path and is never surfaced as data loss.
type NetError struct {
	Op  string
	Err error
}

func (e *NetError) Error() string { return fmt.Sprintf("network error (%s): %v", e.Op, e.Err) }

func (e *NetError) Unwrap() error { return e.Err }

// AuthError reports a rejected login. It is surfaced to the user and has no
// effect on already-queued pending records.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// SubmitError is a negative acknowledgment from the remote endpoint.
// Unknown negative acks are retryable; only Permanent would justify not
// retrying, and the current wire contract never sets it.
type SubmitError struct {
	Message   string
	Permanent bool
}

func (e *SubmitError) Error() string { return e.Message }

// SummaryQuery filters the dashboard summary.
type SummaryQuery struct {
	WindowDays    int
	InformantType string
	Community     string
}

// SummaryRow is one sampled submission in the dashboard table.
type SummaryRow struct {
	CapturedAt    string `json:"captured_at"`
	InformantType string `json:"informant_type"`
	Community     string `json:"community"`
	Topic         string `json:"topic"`
	Color         string `json:"color"`
	Score         *int   `json:"score"`
}

// Summary is the read-only dashboard payload. The core never mutates state
// from it.
type Summary struct {
	Responses      int                `json:"responses"`
	Informants     int                `json:"informants"`
	AvgScore       float64            `json:"avg_score"`
	Color          models.Color       `json:"color"`
	ColorCounts    map[string]int     `json:"color_counts"`
	MeanDailyScore float64            `json:"mean_daily_score"`
	ByDay          map[string]float64 `json:"by_day"`
	Communities    []string           `json:"communities"`
	Sample         []SummaryRow       `json:"sample"`
}

// Transport is the operation set the sync engine and CLI consume.
type Transport interface {
	// Login exchanges credentials for a session. A rejected login returns
	// *AuthError; transport failures return *NetError.
	Login(ctx context.Context, user, password string) (*models.Session, error)
	// Submit delivers one record. A nil error is a positive
	// acknowledgment; negative acks return *SubmitError, transport
	// failures *NetError. Retrying an already-accepted id is a safe no-op.
	Submit(ctx context.Context, rec models.SubmissionRecord) error
	// DashboardSummary runs the read-only dashboard query.
	DashboardSummary(ctx context.Context, token string, q SummaryQuery) (*Summary, error)
	// Config fetches the cosmetic remote configuration.
	Config(ctx context.Context) (map[string]any, error)
	// Online reports current connectivity, best effort.
	Online(ctx context.Context) bool
}
