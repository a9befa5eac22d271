// Package eligibility implements the conditional requirement graph over a
// survey response: which fields the current answers make mandatory, and
// whether a candidate response is complete. Everything here is a pure
// function of the response value; there is no hidden state.
package eligibility

import "github.com/vigiahq/vigia/internal/models"

// FieldID names a questionnaire field for requirement and validation
// reporting.
type FieldID string

const (
	FieldInformantType      FieldID = "informant_type"
	FieldInformantTypeOther FieldID = "informant_type_other"
	FieldRegion             FieldID = "region"
	FieldVenueType          FieldID = "venue_type"
	FieldTensionLevel       FieldID = "tension_level"
	FieldTrend              FieldID = "trend"
	FieldCertainty          FieldID = "certainty"
	FieldSignals            FieldID = "signals"
	FieldRepetition         FieldID = "repetition"
	FieldUrgency            FieldID = "urgency"
	FieldTopic              FieldID = "topic"
	FieldTopicOther         FieldID = "topic_other"
	FieldOrigin             FieldID = "origin"
	FieldRumorDetails       FieldID = "rumor_details"
	FieldRumorDetailsOther  FieldID = "rumor_details_other"
	FieldAction             FieldID = "action"
	FieldActionOther        FieldID = "action_other"
)

// FieldSet is the set of fields currently required.
type FieldSet map[FieldID]bool

// Has reports membership.
func (fs FieldSet) Has(id FieldID) bool { return fs[id] }

// NormalizeSignals applies the grievance-exclusivity rule: when the
// grievance signal is selected together with any other signal, grievance
// wins and all other selections are cleared. Duplicates are dropped. The
// input slice is never mutated.
func NormalizeSignals(signals []models.SignalCode) []models.SignalCode {
	seen := map[models.SignalCode]bool{}
	out := make([]models.SignalCode, 0, len(signals))
	hasGrievance := false
	for _, s := range signals {
		if seen[s] {
			continue
		}
		seen[s] = true
		if s == models.SignalGrievance {
			hasGrievance = true
		}
		out = append(out, s)
	}
	if hasGrievance && len(out) > 1 {
		return []models.SignalCode{models.SignalGrievance}
	}
	return out
}

// Required computes the conditionally required fields for the given alert
// signal selection and origin type. Signals are normalized first, so a
// grievance mixed into a larger selection behaves as grievance-only: both
// repetition-probability and intervention-urgency stay hidden.
func Required(signals []models.SignalCode, origin models.Origin) FieldSet {
	fs := FieldSet{}
	norm := NormalizeSignals(signals)

	onlyGrievance := len(norm) == 1 && norm[0] == models.SignalGrievance
	if len(norm) > 0 && !onlyGrievance {
		fs[FieldUrgency] = true
		for _, s := range norm {
			if s.Critical() {
				fs[FieldRepetition] = true
				break
			}
		}
	}
	if origin == models.OriginRumor {
		fs[FieldRumorDetails] = true
	}
	return fs
}
