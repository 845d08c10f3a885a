package dispatch

import (
	"context"
	"fmt"
	"io"

	"github.com/gantryworks/gantry/internal/trigger"
)

// LogExecutor acknowledges triggers without any external IO. It backs
// the "log" trigger type so dispatch pipelines can be exercised end to
// end before a real collaborator is configured.
type LogExecutor struct {
	// Out receives one line per acknowledged trigger; nil discards.
	Out io.Writer
}

func (l *LogExecutor) Execute(_ context.Context, tr *trigger.Trigger) (Outcome, error) {
	if l.Out != nil {
		fmt.Fprintf(l.Out, "trigger %s (%s) for task #%d acknowledged\n", tr.ID, tr.Type, tr.TaskID)
	}
	return Outcome{OK: true, Message: "acknowledged"}, nil
}
