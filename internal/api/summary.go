package api

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vigiahq/vigia/internal/models"
)

const sampleLimit = 500

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

// Summary is the dashboard payload: KPI counts, the per-day score timeline,
// color tallies, filter values and a bounded sample.
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

// BuildSummary aggregates the stored submissions inside the query window.
// Trigger-forced RED records carry no score and are excluded from score
// averages while still counting toward the color tallies.
func BuildSummary(subs []*StoredSubmission, q SummaryQuery, now time.Time) *Summary {
	windowDays := q.WindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	s := &Summary{
		ColorCounts: map[string]int{},
		ByDay:       map[string]float64{},
		Communities: []string{},
		Sample:      []SummaryRow{},
	}

	informants := map[string]bool{}
	communities := map[string]bool{}
	scoreSum, scoreN := 0, 0
	daySum := map[string]int{}
	dayN := map[string]int{}

	for _, sub := range subs {
		at := sub.Response.CapturedAt
		if at.IsZero() {
			at = sub.ReceivedAt
		}
		if at.Before(cutoff) {
			continue
		}
		if sub.Response.Community != "" {
			communities[sub.Response.Community] = true
		}
		if q.InformantType != "" && !strings.EqualFold(sub.Response.InformantType, q.InformantType) {
			continue
		}
		if q.Community != "" && !strings.EqualFold(sub.Response.Community, q.Community) {
			continue
		}

		s.Responses++
		informants[sub.By] = true
		s.ColorCounts[string(sub.Result.Color)]++
		if sub.Result.Score != nil {
			scoreSum += *sub.Result.Score
			scoreN++
			day := at.UTC().Format("2006-01-02")
			daySum[day] += *sub.Result.Score
			dayN[day]++
		}
		if len(s.Sample) < sampleLimit {
			s.Sample = append(s.Sample, SummaryRow{
				CapturedAt:    at.UTC().Format(time.RFC3339),
				InformantType: sub.Response.InformantType,
				Community:     sub.Response.Community,
				Topic:         sub.Response.Topic,
				Color:         string(sub.Result.Color),
				Score:         sub.Result.Score,
			})
		}
	}

	s.Informants = len(informants)
	if scoreN > 0 {
		s.AvgScore = round1(float64(scoreSum) / float64(scoreN))
	}
	for day, sum := range daySum {
		s.ByDay[day] = round1(float64(sum) / float64(dayN[day]))
	}
	if len(s.ByDay) > 0 {
		total := 0.0
		for _, v := range s.ByDay {
			total += v
		}
		s.MeanDailyScore = round1(total / float64(len(s.ByDay)))
	}
	for c := range communities {
		s.Communities = append(s.Communities, c)
	}
	sort.Strings(s.Communities)
	s.Color = overallColor(s.ColorCounts, s.MeanDailyScore)
	return s
}

// overallColor is the system-level semaphore: any RED in the window forces
// RED, otherwise the daily mean decides.
func overallColor(counts map[string]int, meanDaily float64) models.Color {
	if counts[string(models.ColorRed)] > 0 {
		return models.ColorRed
	}
	if meanDaily > 3 {
		return models.ColorYellow
	}
	return models.ColorGreen
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
