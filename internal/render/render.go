// Package render turns aggregated occurrence and task lists into text for
// the terminal, optionally styled with per-source colors.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"icsagenda/internal/caltime"
	"icsagenda/internal/model"
)

// Options control text rendering of agenda and task lists.
type Options struct {
	Color bool
}

var namedColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("1"),
	"green":   lipgloss.Color("2"),
	"yellow":  lipgloss.Color("3"),
	"blue":    lipgloss.Color("4"),
	"magenta": lipgloss.Color("5"),
	"cyan":    lipgloss.Color("6"),
	"white":   lipgloss.Color("7"),
}

var (
	dayHeadingStyle = lipgloss.NewStyle().Bold(true)
	clockStyle      = lipgloss.NewStyle().Faint(true)
	doneStyle       = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// sourceStyle maps a configured source color onto a lipgloss style.
// Unknown names fall back to the default foreground.
func sourceStyle(color string) lipgloss.Style {
	if strings.HasPrefix(color, "#") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	if c, ok := namedColors[strings.ToLower(color)]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

// Agenda renders occurrences grouped by day. Input order is preserved, so
// the caller's sorted output prints chronologically with all-day entries
// (starting at midnight) leading each day.
func Agenda(occs []model.Occurrence, opts Options) string {
	if len(occs) == 0 {
		return "no events\n"
	}

	var b strings.Builder
	var day time.Time
	for _, occ := range occs {
		if !caltime.SameDay(day, occ.Start) {
			day = occ.Start
			heading := occ.Start.Format("Monday 2006-01-02")
			if opts.Color {
				heading = dayHeadingStyle.Render(heading)
			}
			b.WriteString(heading + "\n")
		}
		b.WriteString("  " + formatOccurrence(occ, opts) + "\n")
	}
	return b.String()
}

func formatOccurrence(occ model.Occurrence, opts Options) string {
	clock := "all day      "
	if !occ.AllDay {
		clock = occ.Start.Format("15:04") + " - " + occ.End.Format("15:04")
	}
	if opts.Color {
		clock = clockStyle.Render(clock)
	}

	line := clock + "  " + occ.Summary
	if occ.Location != "" {
		line += " @ " + occ.Location
	}
	if occ.Calendar != "" {
		tag := "[" + occ.Calendar + "]"
		if opts.Color {
			tag = sourceStyle(occ.Color).Render(tag)
		}
		line += "  " + tag
	}
	return line
}

// Tasks renders a task list, one line per task, in the caller's order.
func Tasks(tasks []model.Task, opts Options) string {
	if len(tasks) == 0 {
		return "no tasks\n"
	}

	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(formatTask(task, opts) + "\n")
	}
	return b.String()
}

func formatTask(task model.Task, opts Options) string {
	box := "[ ]"
	switch task.Status {
	case model.TaskCompleted:
		box = "[x]"
	case model.TaskInProcess:
		box = "[-]"
	}

	line := box
	if task.Priority > 0 {
		line += fmt.Sprintf(" !%d", task.Priority)
	}
	line += " " + task.Summary
	if task.Due != nil {
		line += "  due " + task.Due.Format("2006-01-02")
	}
	if task.Calendar != "" {
		tag := "[" + task.Calendar + "]"
		if opts.Color {
			tag = sourceStyle(task.Color).Render(tag)
		}
		line += "  " + tag
	}

	if opts.Color && task.Done() {
		line = doneStyle.Render(line)
	}
	return line
}
