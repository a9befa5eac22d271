package eligibility

import (
	"fmt"
	"strings"

	"github.com/vigiahq/vigia/internal/models"
)

// ValidationError reports one missing or inconsistent field. It is
// user-correctable; callers present the full list, never just the first.
type ValidationError struct {
	Field   FieldID
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is the complete violation list for one response.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks that every statically required field is present and that
// every conditionally required field, recomputed from the response itself,
// is present. It never mutates its input and returns every violation found.
func Validate(r models.SurveyResponse) ValidationErrors {
	var errs ValidationErrors
	missing := func(id FieldID, msg string) {
		errs = append(errs, ValidationError{Field: id, Message: msg})
	}

	if strings.TrimSpace(r.InformantType) == "" {
		missing(FieldInformantType, "select an informant type")
	}
	if strings.TrimSpace(r.Region) == "" {
		missing(FieldRegion, "select a region")
	}
	if strings.TrimSpace(r.VenueType) == "" {
		missing(FieldVenueType, "select a venue type")
	}
	if r.TensionLevel < 1 || r.TensionLevel > 5 {
		missing(FieldTensionLevel, "tension level must be between 1 and 5")
	}
	if r.Trend == "" {
		missing(FieldTrend, "select a trend")
	}
	if r.Certainty == "" {
		missing(FieldCertainty, "select a certainty level")
	}
	if len(r.Signals) == 0 {
		missing(FieldSignals, "select at least one alert signal")
	}
	if strings.TrimSpace(r.Topic) == "" {
		missing(FieldTopic, "select a topic")
	}
	if r.Origin == "" {
		missing(FieldOrigin, "select an origin type")
	}
	if strings.TrimSpace(r.Action) == "" {
		missing(FieldAction, "select a recommended action")
	}

	req := Required(r.Signals, r.Origin)
	if req.Has(FieldUrgency) && r.Urgency == "" {
		missing(FieldUrgency, "select an intervention urgency")
	}
	if req.Has(FieldRepetition) && r.Repetition == "" {
		missing(FieldRepetition, "select a repetition probability")
	}
	if req.Has(FieldRumorDetails) && len(r.RumorDetails) == 0 {
		missing(FieldRumorDetails, "select at least one rumor detail")
	}

	// Free-text overrides are required exactly when the parent enumerated
	// answer is the "other" sentinel.
	if r.InformantType == models.OtherSentinel && strings.TrimSpace(r.InformantTypeOther) == "" {
		missing(FieldInformantTypeOther, "describe the informant type")
	}
	if r.Topic == models.OtherSentinel && strings.TrimSpace(r.TopicOther) == "" {
		missing(FieldTopicOther, "describe the topic")
	}
	if r.Action == models.OtherSentinel && strings.TrimSpace(r.ActionOther) == "" {
		missing(FieldActionOther, "describe the recommended action")
	}
	for _, d := range r.RumorDetails {
		if d == models.OtherSentinel && strings.TrimSpace(r.RumorDetailsOther) == "" {
			missing(FieldRumorDetailsOther, "describe the rumor detail")
			break
		}
	}

	return errs
}
