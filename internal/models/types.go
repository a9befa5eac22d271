package models

import "time"

// Color is the semaphore level assigned to a classified response.
type Color string

const (
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorRed    Color = "RED"
)

// Trend describes the perceived direction of the social climate.
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendUnchanged Trend = "unchanged"
	TrendWorsened  Trend = "worsened"
)

// Certainty is the informant's self-reported confidence.
type Certainty string

const (
	CertaintyLow    Certainty = "low"
	CertaintyMedium Certainty = "medium"
	CertaintyHigh   Certainty = "high"
)

// SignalCode identifies one alert signal from the fixed alphabet.
type SignalCode string

const (
	SignalAdvisory            SignalCode = "advisory"
	SignalMinor               SignalCode = "minor"
	SignalCutOff              SignalCode = "cut-off"
	SignalProtest             SignalCode = "protest"
	SignalInformational       SignalCode = "informational"
	SignalContractorComplaint SignalCode = "contractor-complaint"
	SignalGrievance           SignalCode = "grievance"
)

// Critical reports whether the signal belongs to the set that forces a RED
// classification and makes the repetition-probability question mandatory.
func (s SignalCode) Critical() bool {
	switch s {
	case SignalCutOff, SignalProtest, SignalContractorComplaint:
		return true
	}
	return false
}

// Scorable reports whether the signal contributes to the numeric score.
func (s SignalCode) Scorable() bool {
	switch s {
	case SignalAdvisory, SignalMinor, SignalInformational:
		return true
	}
	return false
}

// Repetition is the informant's estimate of the event repeating.
type Repetition string

const (
	RepetitionLow    Repetition = "low"
	RepetitionMedium Repetition = "medium"
	RepetitionHigh   Repetition = "high"
)

// Urgency is the recommended intervention window.
type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyThisWeek Urgency = "this-week"
	UrgencyToday    Urgency = "urgent-today"
)

// Origin says how the information reached the informant.
type Origin string

const (
	OriginFirsthand  Origin = "firsthand"
	OriginSecondhand Origin = "secondhand"
	OriginRumor      Origin = "rumor"
)

// OtherSentinel marks an enumerated answer whose real value lives in the
// paired free-text override field.
const OtherSentinel = "other"

// GPS is an optional captured coordinate pair.
type GPS struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// SurveyResponse is one field-collected observation. It is built transiently
// from user input and becomes immutable once it has been classified and
// frozen into a SubmissionRecord.
type SurveyResponse struct {
	CapturedAt         time.Time    `json:"captured_at"`
	InformantType      string       `json:"informant_type"`
	InformantTypeOther string       `json:"informant_type_other,omitempty"`
	Region             string       `json:"region"`
	District           string       `json:"district,omitempty"`
	Community          string       `json:"community,omitempty"`
	VenueType          string       `json:"venue_type"`
	TensionLevel       int          `json:"tension_level"` // ordinal 1..5
	Trend              Trend        `json:"trend"`
	Certainty          Certainty    `json:"certainty"`
	Signals            []SignalCode `json:"signals"`
	SignalsOther       string       `json:"signals_other,omitempty"`
	Repetition         Repetition   `json:"repetition,omitempty"`
	Urgency            Urgency      `json:"urgency,omitempty"`
	Topic              string       `json:"topic"`
	TopicOther         string       `json:"topic_other,omitempty"`
	Origin             Origin       `json:"origin"`
	RumorDetails       []string     `json:"rumor_details,omitempty"`
	RumorDetailsOther  string       `json:"rumor_details_other,omitempty"`
	Action             string       `json:"action"`
	ActionOther        string       `json:"action_other,omitempty"`
	Notes              string       `json:"notes,omitempty"`
	GPS                *GPS         `json:"gps,omitempty"`
	PhotoRef           string       `json:"photo_ref,omitempty"`
}

// HasSignal reports whether the response carries the given alert signal.
func (r *SurveyResponse) HasSignal(code SignalCode) bool {
	for _, s := range r.Signals {
		if s == code {
			return true
		}
	}
	return false
}

// ClassificationResult is the semaphore verdict for one response.
// Score is nil exactly when the color was forced RED by a trigger; a RED
// reached through the numeric path keeps its score populated.
type ClassificationResult struct {
	Color       Color    `json:"color"`
	Score       *int     `json:"score"`
	Triggers    []string `json:"triggers"`
	Reliability float64  `json:"reliability"`
}

// StatusPending is the only lifecycle status a stored record ever has;
// acknowledged records are deleted rather than transitioned.
const StatusPending = "pending"

// SubmissionRecord is the unit of durability and delivery. ID is generated
// exactly once at creation and doubles as the server-side idempotency key.
type SubmissionRecord struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Status    string               `json:"status"`
	Token     string               `json:"token"`
	Response  SurveyResponse       `json:"response"`
	Result    ClassificationResult `json:"semaforo"`
}

// Session is the authenticated client state persisted in the cache namespace.
type Session struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	CanDashboard bool   `json:"can_dashboard"`
}
