package replay

import (
	"fmt"

	"github.com/muesli/reflow/truncate"
	"github.com/vinayprograms/robot/internal/session"
)

// maxLineWidth bounds free text on a single timeline line.
const maxLineWidth = 80

// formatEvent formats a single event for display. repeat > 1 collapses a run
// of identical actions into one line.
func (r *Replayer) formatEvent(event *session.Event, repeat int) {
	ts := timeStyle.Render(event.Timestamp.Format("15:04:05.000"))
	seqNum := seqStyle.Render(fmt.Sprintf("%d", event.SeqID))

	switch event.Type {
	case session.EventRunStart:
		fmt.Fprintf(r.output, "%s │ %s │ %s %s\n", seqNum, ts,
			flowStyle.Render("RUN START"),
			dimStyle.Render(event.Content))
	case session.EventAction:
		label := event.Action
		if repeat > 1 {
			label = fmt.Sprintf("%s ×%d", event.Action, repeat)
		}
		fmt.Fprintf(r.output, "%s │ %s │ %s %s\n", seqNum, ts,
			actionStyle.Render(label),
			dimStyle.Render(location(event)))
	case session.EventAssign:
		value := "?"
		if event.Value != nil {
			value = fmt.Sprintf("%d", *event.Value)
		}
		fmt.Fprintf(r.output, "%s │ %s │ %s %s\n", seqNum, ts,
			assignStyle.Render(fmt.Sprintf("%s = %s", event.Variable, value)),
			dimStyle.Render(location(event)))
	case session.EventFault:
		fmt.Fprintf(r.output, "%s │ %s │ %s %s\n", seqNum, ts,
			errorStyle.Render("FAULT "+event.Fault),
			valueStyle.Render(truncate.StringWithTail(event.Error, maxLineWidth, "...")))
	case session.EventRunEnd:
		outcome := successStyle.Render("RUN END")
		if event.Error != "" {
			outcome = warnStyle.Render("RUN END")
		}
		fmt.Fprintf(r.output, "%s │ %s │ %s %s\n", seqNum, ts,
			outcome,
			dimStyle.Render(fmt.Sprintf("(%dms)", event.DurationMs)))
	default:
		fmt.Fprintf(r.output, "%s │ %s │ %s\n", seqNum, ts, dimStyle.Render(event.Type))
	}
}

func location(event *session.Event) string {
	if event.Line == 0 {
		return ""
	}
	return fmt.Sprintf("(line %d)", event.Line)
}
