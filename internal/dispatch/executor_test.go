package dispatch

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/gantryworks/gantry/internal/trigger"
)

func TestDefaultRegistryTypes(t *testing.T) {
	reg := DefaultRegistry(io.Discard)
	types := reg.Types()
	want := []string{"codegen", "log", "webhook"}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("types = %v, want %v", types, want)
		}
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Lookup("notify"); ok {
		t.Error("empty registry should have no executors")
	}

	first := &LogExecutor{}
	second := &LogExecutor{}
	reg.Register("notify", first)
	reg.Register("notify", second)

	got, ok := reg.Lookup("notify")
	if !ok {
		t.Fatal("lookup failed after register")
	}
	if got != second {
		t.Error("later registration should replace the earlier one")
	}
}

func TestLogExecutorWritesAcknowledgement(t *testing.T) {
	var buf bytes.Buffer
	exec := &LogExecutor{Out: &buf}
	tr := trigger.New(12, "log", nil)

	out, err := exec.Execute(context.Background(), tr)
	if err != nil {
		t.Fatalf("execute: err = %v, want nil", err)
	}
	if !out.OK || out.Message != "acknowledged" {
		t.Errorf("outcome = %+v", out)
	}

	line := buf.String()
	if !strings.Contains(line, tr.ID) || !strings.Contains(line, "task #12") {
		t.Errorf("log line = %q", line)
	}
}

func TestLogExecutorNilWriter(t *testing.T) {
	exec := &LogExecutor{}
	out, err := exec.Execute(context.Background(), trigger.New(1, "log", nil))
	if err != nil || !out.OK {
		t.Errorf("outcome = %+v, err = %v", out, err)
	}
}

func TestCommandExecutorSuccess(t *testing.T) {
	exec := &CommandExecutor{}
	tr := trigger.New(3, "codegen", map[string]string{"command": "true"})

	out, err := exec.Execute(context.Background(), tr)
	if err != nil {
		t.Fatalf("execute: err = %v, want nil", err)
	}
	if !out.OK {
		t.Errorf("outcome = %+v", out)
	}
}

func TestCommandExecutorNonZeroExit(t *testing.T) {
	exec := &CommandExecutor{}
	tr := trigger.New(3, "codegen", map[string]string{"command": "false"})

	out, err := exec.Execute(context.Background(), tr)
	if err != nil {
		t.Fatalf("execute: err = %v, want nil (exit codes are permanent, not transient)", err)
	}
	if out.OK {
		t.Error("non-zero exit should fail the trigger")
	}
	if !strings.Contains(out.Message, "command exited with 1") {
		t.Errorf("message = %q", out.Message)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	exec := &CommandExecutor{}
	tr := trigger.New(3, "codegen", map[string]string{"command": "gantry-no-such-binary"})

	out, err := exec.Execute(context.Background(), tr)
	if err != nil {
		t.Fatalf("execute: err = %v, want nil", err)
	}
	if out.OK || !strings.Contains(out.Message, "failed to start") {
		t.Errorf("outcome = %+v", out)
	}
}

func TestCommandExecutorNoCommandConfigured(t *testing.T) {
	exec := &CommandExecutor{}
	out, err := exec.Execute(context.Background(), trigger.New(3, "codegen", nil))
	if err != nil {
		t.Fatalf("execute: err = %v, want nil", err)
	}
	if out.OK || !strings.Contains(out.Message, "no command configured") {
		t.Errorf("outcome = %+v", out)
	}
}
