package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"shelfstats/internal/engine"
	"shelfstats/internal/model"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	sparkChars          = " .:-=+*#%@"
	barChar             = "█"
)

// AutoWidth returns the terminal width, or a fixed backup when stdout is
// not a terminal.
func AutoWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Render writes the full text report for a computed result.
func Render(w io.Writer, res engine.Result, view model.ActivityView, totalWidth int) error {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	if err := renderSummary(w, res); err != nil {
		return err
	}
	if err := RenderActivity(w, res.Chart, view, totalWidth); err != nil {
		return err
	}
	if err := renderHabits(w, res); err != nil {
		return err
	}
	if err := renderStatusBreakdown(w, res.StatusBreakdown); err != nil {
		return err
	}
	if err := renderTopBooks(w, res.TopBooks); err != nil {
		return err
	}
	return renderTopSessions(w, res.TopSessions)
}

func renderSummary(w io.Writer, res engine.Result) error {
	lines := []string{
		fmt.Sprintf("Summary (%s)", res.Range),
		fmt.Sprintf("Reading time: %s", FormatDuration(res.TotalSeconds)),
		fmt.Sprintf("Books: %d tracked, %d finished, %d in progress", res.Core.TotalBooks, res.Core.FinishedBooks, res.Core.InProgressBooks),
		fmt.Sprintf("Completion rate: %d%%", res.Core.CompletionRate),
		fmt.Sprintf("Sessions: %d (avg %s)", res.Core.TrackedSessions, FormatDuration(float64(res.Core.AverageSessionSeconds))),
		fmt.Sprintf("Pages read: %d", res.Core.CompletedPages),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderActivity prints the daily activity chart as either horizontal bars
// or a single-line sparkline.
func RenderActivity(w io.Writer, chart engine.ChartDays, view model.ActivityView, totalWidth int) error {
	if _, err := fmt.Fprintln(w, "Daily Activity"); err != nil {
		return err
	}
	if len(chart.Days) == 0 {
		if _, err := fmt.Fprintln(w, "No activity."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	if view == model.ViewLine {
		return renderActivityLine(w, chart)
	}
	return renderActivityBars(w, chart, totalWidth)
}

func renderActivityBars(w io.Writer, chart engine.ChartDays, totalWidth int) error {
	labelWidth := 0
	durations := make([]string, len(chart.Days))
	for i, d := range chart.Days {
		durations[i] = FormatDuration(d.Seconds)
		if len(durations[i]) > labelWidth {
			labelWidth = len(durations[i])
		}
	}
	barWidth := totalWidth - len("2006-01-02") - labelWidth - 4
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	for i, d := range chart.Days {
		filled := 0
		if chart.MaxDaySeconds > 0 {
			filled = int(math.Round(d.Seconds / chart.MaxDaySeconds * float64(barWidth)))
		}
		if filled > barWidth {
			filled = barWidth
		}
		if filled == 0 && d.Seconds > 0 {
			filled = 1
		}
		bar := strings.Repeat(barChar, filled) + strings.Repeat(" ", barWidth-filled)
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", d.Key, bar, durations[i]); err != nil {
			return err
		}
	}
	return writeBlank(w)
}

func renderActivityLine(w io.Writer, chart engine.ChartDays) error {
	values := make([]float64, len(chart.Days))
	for i, d := range chart.Days {
		values[i] = d.Seconds
	}
	first := chart.Days[0]
	last := chart.Days[len(chart.Days)-1]
	if _, err := fmt.Fprintf(w, "%s .. %s, peak %s\n", first.Key, last.Key, FormatDuration(chart.MaxDaySeconds)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, sparkline(values)); err != nil {
		return err
	}
	return writeBlank(w)
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func renderHabits(w io.Writer, res engine.Result) error {
	lines := []string{
		"Habits",
		fmt.Sprintf("Streak: %d days (best %d)", res.Streaks.Current, res.Streaks.Best),
		fmt.Sprintf("Weekly goal: %s of %s (%d%%)",
			FormatDuration(float64(res.Week.WeekSeconds)),
			FormatDuration(float64(engine.WeeklyGoalSeconds)),
			res.Week.Percent),
		fmt.Sprintf("Year %d: %s read, %d pages, %d books finished, %d sessions",
			res.Year.Year,
			FormatDuration(float64(res.Year.Seconds)),
			res.Year.Pages, res.Year.FinishedBooks, res.Year.Sessions),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderStatusBreakdown(w io.Writer, counts []engine.StatusCount) error {
	if _, err := fmt.Fprintln(w, "Library Status"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{
			string(c.Status),
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("%d%%", c.Percent),
		})
	}
	headers := []string{"Status", "Books", "Share"}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return writeBlank(w)
}

func renderTopBooks(w io.Writer, books []engine.BookRank) error {
	if _, err := fmt.Fprintln(w, "Top Books"); err != nil {
		return err
	}
	if len(books) == 0 {
		if _, err := fmt.Fprintln(w, "No tracked reading."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	rows := make([][]string, 0, len(books))
	for i, b := range books {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			b.Title,
			b.Author,
			FormatDuration(b.TrackedSeconds),
		})
	}
	headers := []string{"#", "Title", "Author", "Time"}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return writeBlank(w)
}

func renderTopSessions(w io.Writer, sessions []engine.NormalizedSession) error {
	if _, err := fmt.Fprintln(w, "Longest Sessions"); err != nil {
		return err
	}
	if len(sessions) == 0 {
		if _, err := fmt.Fprintln(w, "No sessions."); err != nil {
			return err
		}
		return writeBlank(w)
	}
	rows := make([][]string, 0, len(sessions))
	for i, s := range sessions {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.Title,
			s.DayKey,
			FormatDuration(s.Seconds),
		})
	}
	headers := []string{"#", "Title", "Day", "Time"}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return writeBlank(w)
}

func writeBlank(w io.Writer) error {
	_, err := fmt.Fprintln(w, "")
	return err
}
