package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/gantryworks/gantry/internal/trigger"
)

// outputTailLimit bounds how much command output lands on the trigger
// record.
const outputTailLimit = 512

// CommandExecutor runs a locally configured command for codegen-style
// triggers. The command line comes from config "command" and is split
// on whitespace; the trigger context is passed through the
// environment (GANTRY_TRIGGER_ID, GANTRY_TASK_ID, GANTRY_TRIGGER_TYPE).
//
// Exit 0 is success. A non-zero exit or a missing binary is a
// permanent failure; only context cancellation counts as transient.
type CommandExecutor struct{}

func (c *CommandExecutor) Execute(ctx context.Context, tr *trigger.Trigger) (Outcome, error) {
	fields := strings.Fields(tr.Config["command"])
	if len(fields) == 0 {
		return Outcome{OK: false, Message: "codegen trigger has no command configured"}, nil
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...) //nolint:gosec // command comes from workspace config
	cmd.Env = append(os.Environ(),
		"GANTRY_TRIGGER_ID="+tr.ID,
		fmt.Sprintf("GANTRY_TASK_ID=%d", tr.TaskID),
		"GANTRY_TRIGGER_TYPE="+tr.Type,
	)

	out, err := cmd.CombinedOutput()
	if err == nil {
		return Outcome{OK: true}, nil
	}

	if ctx.Err() != nil {
		return Outcome{}, fmt.Errorf("command interrupted: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Outcome{
			OK:      false,
			Message: fmt.Sprintf("command exited with %d: %s", exitErr.ExitCode(), tail(out)),
		}, nil
	}
	return Outcome{OK: false, Message: fmt.Sprintf("command failed to start: %v", err)}, nil
}

// tail returns the trailing slice of command output, trimmed.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > outputTailLimit {
		s = "..." + s[len(s)-outputTailLimit:]
	}
	return s
}
