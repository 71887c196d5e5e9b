// Package display renders agendas and conflict reports for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/confmate/internal/conflict"
	"github.com/julianstephens/confmate/internal/constants"
	"github.com/julianstephens/confmate/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Agenda renders the full multi-day agenda.
func Agenda(agenda models.SmartAgenda) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Agenda v%d", agenda.Version)))
	if !agenda.Active {
		b.WriteString(warningStyle.Render("  (inactive)"))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Confidence %.0f/100", agenda.Metrics.Confidence)))
	if agenda.Metrics.Confidence < constants.LowConfidenceThreshold {
		b.WriteString(warningStyle.Render("  low confidence"))
	}
	b.WriteString("\n\n")

	for _, day := range agenda.Days {
		b.WriteString(Day(day))
		b.WriteString("\n")
	}

	if len(agenda.Insights) > 0 {
		b.WriteString(headerStyle.Render("Insights") + "\n")
		for _, insight := range agenda.Insights {
			b.WriteString("  " + mutedStyle.Render(insight) + "\n")
		}
	}

	return b.String()
}

// Day renders one day of the agenda, including displaced alternatives.
func Day(day models.DayPlan) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Day %d  %s", day.Day, day.Date)) + "\n")
	if len(day.Items) == 0 {
		b.WriteString(mutedStyle.Render("  (empty)") + "\n")
	}
	for _, item := range day.Items {
		b.WriteString("  " + renderItem(item) + "\n")
	}
	for _, alt := range day.Alternatives {
		line := fmt.Sprintf("  %s %s", timeStyle.Render(alt.Start+" - "+alt.End), alt.Title)
		b.WriteString(warningStyle.Render("  ! ") + line + mutedStyle.Render("  (conflicts with another favorite)") + "\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d sessions, %d favorites, %d suggested",
		day.Stats.Sessions, day.Stats.FavoritesCovered, day.Stats.Suggestions)) + "\n")
	return b.String()
}

func renderItem(item models.ScheduleItem) string {
	line := timeStyle.Render(item.Start+" - "+item.End) + " " + titleStyle.Render(item.Title)
	if item.Location != "" {
		line += mutedStyle.Render("  @ " + item.Location)
	}
	switch item.Source {
	case models.SourceAISuggested:
		line += mutedStyle.Render("  (suggested)")
	case models.SourceFiller:
		line += mutedStyle.Render("  (" + string(item.Kind) + ")")
	}
	return line
}

// ConflictReport renders the result of a single-session conflict check.
func ConflictReport(result conflict.Result) string {
	var b strings.Builder

	if !result.HasAgenda {
		b.WriteString(mutedStyle.Render("No active agenda; nothing to conflict with.") + "\n")
		return b.String()
	}
	if result.Indeterminate {
		b.WriteString(warningStyle.Render("Could not determine conflicts: session has unusable time data.") + "\n")
		return b.String()
	}
	if len(result.Conflicts) == 0 {
		b.WriteString(titleStyle.Render("No conflicts.") + "\n")
		return b.String()
	}

	for _, c := range result.Conflicts {
		style := mutedStyle
		switch c.Severity {
		case conflict.SeverityHigh:
			style = dangerStyle
		case conflict.SeverityMedium:
			style = warningStyle
		}
		b.WriteString(style.Render(strings.ToUpper(string(c.Severity))))
		if c.OverlapMinutes > 0 {
			b.WriteString(fmt.Sprintf("  overlaps %q by %d min\n", c.Title, c.OverlapMinutes))
		} else {
			b.WriteString(fmt.Sprintf("  tight transition around %q (under the travel buffer)\n", c.Title))
		}
	}
	return b.String()
}

// Versions renders the version history of an agenda.
func Versions(versions []models.AgendaVersion) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Version history") + "\n")
	for _, v := range versions {
		b.WriteString(fmt.Sprintf("  v%-3d %s  %s",
			v.Version, v.CreatedAt, v.Description))
		b.WriteString(mutedStyle.Render("  by "+v.Actor) + "\n")
	}
	return b.String()
}
