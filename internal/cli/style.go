package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// Day-count thresholds for the color buckets.
const (
	staleWarnDays = 3
	staleHotDays  = 7
	ageWarnDays   = 14
	ageHotDays    = 30
)

var (
	hotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// icon characters per set: incomplete, in progress, complete.
var iconSets = map[string][3]string{
	"default": {"○", "~", "✓"},
	"dots":    {"○", "◐", "●"},
	"check":   {"☐", "☐", "☑"},
	"simple":  {" ", "~", "x"},
}

// icon returns the display character for a status in the configured
// icon set.
func icon(set string, s task.Status) string {
	icons, ok := iconSets[set]
	if !ok {
		icons = iconSets[task.DefaultIconSet]
	}

	return icons[int(s)]
}

// styleDays colors a day count by how overdue it is.
func styleDays(days, warnAt, hotAt int) string {
	text := fmt.Sprintf("%dd", days)

	switch {
	case days >= hotAt:
		return hotStyle.Render(text)
	case days >= warnAt:
		return warnStyle.Render(text)
	default:
		return okStyle.Render(text)
	}
}

// formatRanked renders one ranking row: days, ID, text, section.
func formatRanked(r task.Ranked, warnAt, hotAt int) string {
	return fmt.Sprintf("%s %s %s %s",
		styleDays(r.Days, warnAt, hotAt),
		task.FormatID(r.Task.ID),
		r.Task.Text,
		dimStyle.Render(r.Section),
	)
}
