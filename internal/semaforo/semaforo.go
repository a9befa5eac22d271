// Package semaforo holds the deterministic scoring engine that maps a
// validated survey response to a GREEN/YELLOW/RED classification.
package semaforo

import "github.com/vigiahq/vigia/internal/models"

// Trigger descriptions, in evaluation order.
const (
	TriggerSignalRed   = "signal-based red"
	TriggerUrgencyRed  = "urgency red"
	TriggerCompoundRed = "compound red"
)

const (
	greenMax  = 3
	yellowMax = 7
)

// Reliability maps the certainty code to its reliability coefficient.
func Reliability(c models.Certainty) float64 {
	switch c {
	case models.CertaintyHigh:
		return 1.0
	case models.CertaintyMedium:
		return 0.8
	case models.CertaintyLow:
		return 0.6
	}
	return 0
}

// Classify evaluates the RED triggers in fixed order, recording every one
// that fires. If any fired the result is a trigger-forced RED with a nil
// score. Otherwise it computes the numeric score and maps it to a color;
// this numeric path is the only way a RED result carries a score.
func Classify(r models.SurveyResponse) models.ClassificationResult {
	triggers := []string{}
	for _, s := range r.Signals {
		if s.Critical() {
			triggers = append(triggers, TriggerSignalRed)
			break
		}
	}
	if r.Urgency == models.UrgencyToday {
		triggers = append(triggers, TriggerUrgencyRed)
	}
	if r.Repetition == models.RepetitionHigh && r.TensionLevel >= 4 {
		triggers = append(triggers, TriggerCompoundRed)
	}
	if len(triggers) > 0 {
		return models.ClassificationResult{
			Color:       models.ColorRed,
			Score:       nil,
			Triggers:    triggers,
			Reliability: Reliability(r.Certainty),
		}
	}

	score := r.TensionLevel - 1
	if score < 0 {
		score = 0
	}
	switch r.Trend {
	case models.TrendUnchanged:
		score++
	case models.TrendWorsened:
		score += 2
	}
	scorable := 0
	for _, s := range r.Signals {
		if s.Scorable() {
			scorable++
		}
	}
	if scorable > 3 {
		scorable = 3
	}
	score += scorable

	color := models.ColorGreen
	switch {
	case score > yellowMax:
		color = models.ColorRed
	case score > greenMax:
		color = models.ColorYellow
	}
	return models.ClassificationResult{
		Color:       color,
		Score:       &score,
		Triggers:    []string{},
		Reliability: Reliability(r.Certainty),
	}
}
