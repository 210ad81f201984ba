package reporter

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/actionsum/niribar/internal/config"
	"github.com/actionsum/niribar/internal/models"
	"github.com/actionsum/niribar/pkg/utils"
)

// FocusSource is the part of the repository the reporter reads
type FocusSource interface {
	GetFocusEventsSince(since time.Time) ([]*models.FocusEvent, error)
	GetLatestFocusBefore(t time.Time) (*models.FocusEvent, error)
}

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	repo   FocusSource
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, repo FocusSource) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.GetPeriod(periodType)
	if err != nil {
		return nil, err
	}

	// A window focused before the period started is still focused at its start
	previous, err := r.repo.GetLatestFocusBefore(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get focus before period: %w", err)
	}
	events, err := r.repo.GetFocusEventsSince(period.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to get focus events: %w", err)
	}
	if previous != nil {
		events = append([]*models.FocusEvent{previous}, events...)
	}

	summaries := Summarize(events, period.Start, minTime(period.End, r.now()))

	var totalSeconds int64
	for i := range summaries {
		totalSeconds += summaries[i].TotalSeconds
	}
	if totalSeconds > 0 {
		for i := range summaries {
			summaries[i].Percentage = (float64(summaries[i].TotalSeconds) / float64(totalSeconds)) * 100.0
		}
	}

	report := &models.Report{
		Period:       *period,
		Apps:         summaries,
		TotalSeconds: totalSeconds,
		TotalMinutes: float64(totalSeconds) / 60.0,
		TotalHours:   float64(totalSeconds) / 3600.0,
		GeneratedAt:  r.now(),
	}

	return report, nil
}

// Summarize turns an ordered list of focus changes into time per app.
// Each event lasts until the next one, clipped to [start, end).
func Summarize(events []*models.FocusEvent, start, end time.Time) []models.AppSummary {
	byApp := make(map[string]*models.AppSummary)

	for i, ev := range events {
		if ev.IsBlank() {
			continue
		}

		from := ev.Timestamp
		if from.Before(start) {
			from = start
		}
		to := end
		if i+1 < len(events) && events[i+1].Timestamp.Before(end) {
			to = events[i+1].Timestamp
		}
		if !to.After(from) {
			continue
		}

		summary, ok := byApp[ev.AppName]
		if !ok {
			summary = &models.AppSummary{AppName: ev.AppName}
			byApp[ev.AppName] = summary
		}
		summary.TotalSeconds += int64(to.Sub(from).Seconds())
		summary.FocusCount++
	}

	summaries := make([]models.AppSummary, 0, len(byApp))
	for _, s := range byApp {
		s.TotalMinutes = float64(s.TotalSeconds) / 60.0
		s.TotalHours = float64(s.TotalSeconds) / 3600.0
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalSeconds != summaries[j].TotalSeconds {
			return summaries[i].TotalSeconds > summaries[j].TotalSeconds
		}
		return summaries[i].AppName < summaries[j].AppName
	})
	return summaries
}

// GetPeriod calculates the time range for the report in the configured time zone
func (r *Reporter) GetPeriod(periodType string) (*models.ReportPeriod, error) {
	loc, err := time.LoadLocation(r.config.Report.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", r.config.Report.TimeZone, err)
	}
	now := r.now().In(loc)
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Focus Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	output += fmt.Sprintf("Total Time: %s\n\n", utils.FormatDuration(report.TotalSeconds))

	if len(report.Apps) == 0 {
		output += "No focus recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-30s %8s %8s %10s\n", "Application", "Time", "Focused", "Percent")
	output += fmt.Sprintf("%s\n", "----------------------------------------------------------------")

	for _, app := range report.Apps {
		output += fmt.Sprintf("%-30s %8s %8d %9.1f%%\n",
			utils.Truncate(app.AppName, 30),
			utils.FormatDuration(app.TotalSeconds),
			app.FocusCount,
			app.Percentage)
	}

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
