package api

import (
	"testing"
	"time"

	"github.com/vigiahq/vigia/internal/models"
)

func sub(id, by, community, informant string, capturedAt time.Time, color models.Color, score *int) *StoredSubmission {
	return &StoredSubmission{
		ID:         id,
		ReceivedAt: capturedAt,
		By:         by,
		Response: models.SurveyResponse{
			CapturedAt:    capturedAt,
			InformantType: informant,
			Community:     community,
			Topic:         "water",
		},
		Result: models.ClassificationResult{Color: color, Score: score},
	}
}

func intp(v int) *int { return &v }

func TestBuildSummaryWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	subs := []*StoredSubmission{
		sub("a", "ana", "norte", "merchant", now.AddDate(0, 0, -2), models.ColorGreen, intp(2)),
		sub("b", "luis", "sur", "merchant", now.AddDate(0, 0, -45), models.ColorRed, intp(9)),
	}

	s := BuildSummary(subs, SummaryQuery{}, now)
	if s.Responses != 1 {
		t.Fatalf("default 30-day window should keep one submission, got %d", s.Responses)
	}
	if s.Color != models.ColorGreen {
		t.Fatalf("a RED outside the window must not force the overall color, got %s", s.Color)
	}

	s = BuildSummary(subs, SummaryQuery{WindowDays: 60}, now)
	if s.Responses != 2 || s.Color != models.ColorRed {
		t.Fatalf("widened window should include the RED: %+v", s)
	}
}

func TestBuildSummaryFilters(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	subs := []*StoredSubmission{
		sub("a", "ana", "norte", "merchant", now.AddDate(0, 0, -1), models.ColorGreen, intp(2)),
		sub("b", "luis", "sur", "community-leader", now.AddDate(0, 0, -1), models.ColorYellow, intp(5)),
	}

	s := BuildSummary(subs, SummaryQuery{Community: "Norte"}, now)
	if s.Responses != 1 || s.Informants != 1 {
		t.Fatalf("community filter should be case-insensitive: %+v", s)
	}
	if len(s.Communities) != 2 {
		t.Fatalf("filter values must list all communities in the window, got %v", s.Communities)
	}

	s = BuildSummary(subs, SummaryQuery{InformantType: "community-leader"}, now)
	if s.Responses != 1 || s.AvgScore != 5 {
		t.Fatalf("informant filter: %+v", s)
	}
}

func TestBuildSummaryScorelessRed(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	subs := []*StoredSubmission{
		sub("a", "ana", "norte", "merchant", now.AddDate(0, 0, -1), models.ColorGreen, intp(2)),
		sub("b", "ana", "norte", "merchant", now.AddDate(0, 0, -1), models.ColorRed, nil),
	}

	s := BuildSummary(subs, SummaryQuery{}, now)
	if s.AvgScore != 2 {
		t.Fatalf("trigger-forced RED carries no score and must not skew the average, got %v", s.AvgScore)
	}
	if s.ColorCounts["RED"] != 1 || s.ColorCounts["GREEN"] != 1 {
		t.Fatalf("scoreless records still count toward color tallies: %v", s.ColorCounts)
	}
	if s.Color != models.ColorRed {
		t.Fatalf("any RED in the window forces the overall color, got %s", s.Color)
	}
	if s.Informants != 1 {
		t.Fatalf("informants should be distinct submitters, got %d", s.Informants)
	}
}

func TestBuildSummaryDailyMeans(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	day1 := now.AddDate(0, 0, -1)
	day2 := now.AddDate(0, 0, -2)
	subs := []*StoredSubmission{
		sub("a", "ana", "norte", "merchant", day1, models.ColorYellow, intp(4)),
		sub("b", "luis", "norte", "merchant", day1, models.ColorYellow, intp(6)),
		sub("c", "ana", "norte", "merchant", day2, models.ColorGreen, intp(2)),
	}

	s := BuildSummary(subs, SummaryQuery{}, now)
	if got := s.ByDay[day1.Format("2006-01-02")]; got != 5 {
		t.Fatalf("day mean: got %v, want 5", got)
	}
	if s.MeanDailyScore != 3.5 {
		t.Fatalf("mean of daily means: got %v, want 3.5", s.MeanDailyScore)
	}
	if s.Color != models.ColorYellow {
		t.Fatalf("daily mean above 3 without RED is YELLOW, got %s", s.Color)
	}
}

func TestBuildSummaryFallsBackToReceivedAt(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	s := &StoredSubmission{
		ID:         "a",
		ReceivedAt: now.AddDate(0, 0, -1),
		By:         "ana",
		Response:   models.SurveyResponse{InformantType: "merchant", Community: "norte"},
		Result:     models.ClassificationResult{Color: models.ColorGreen, Score: intp(1)},
	}
	out := BuildSummary([]*StoredSubmission{s}, SummaryQuery{}, now)
	if out.Responses != 1 {
		t.Fatalf("zero captured_at should fall back to receipt time, got %+v", out)
	}
}
