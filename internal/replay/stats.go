package replay

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/vinayprograms/robot/internal/session"
)

// Stats holds aggregate statistics for a session.
type Stats struct {
	TotalDurationMs int64
	Actions         map[string]int // per action name
	TotalActions    int
	Assigns         int
	Faults          int
}

// ComputeStats calculates aggregate statistics from session events.
func ComputeStats(sess *session.Session) *Stats {
	stats := &Stats{Actions: make(map[string]int)}

	for _, event := range sess.Events {
		switch event.Type {
		case session.EventAction:
			stats.Actions[event.Action]++
			stats.TotalActions++
		case session.EventAssign:
			stats.Assigns++
		case session.EventFault:
			stats.Faults++
		case session.EventRunEnd:
			stats.TotalDurationMs = event.DurationMs
		}
	}
	return stats
}

// PrintStats writes the statistics block.
func PrintStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("STATS"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Duration:"), valueStyle.Render(fmt.Sprintf("%dms", stats.TotalDurationMs)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Actions: "), valueStyle.Render(fmt.Sprintf("%d", stats.TotalActions)))

	names := make([]string, 0, len(stats.Actions))
	for name := range stats.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("  %s %d",
			actionStyle.Width(12).Render(name),
			stats.Actions[name]))
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Assigns: "), valueStyle.Render(fmt.Sprintf("%d", stats.Assigns)))
	if stats.Faults > 0 {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Faults:  "), errorStyle.Render(fmt.Sprintf("%d", stats.Faults)))
	}
}

// PrintVariables writes the final variable values in name order.
func PrintVariables(w io.Writer, vars map[string]int) {
	if len(vars) == 0 {
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("VARIABLES"))
	for _, name := range names {
		fmt.Fprintf(w, "  %s %s\n", assignStyle.Render(name), valueStyle.Render(fmt.Sprintf("%d", vars[name])))
	}
}
