// Package dispatch hands workflow triggers to external collaborator
// executors and runs the dispatch worker. The core never embeds
// vendor-specific logic; executors are the only code performing
// external IO on behalf of triggers.
package dispatch

import (
	"context"
	"io"
	"sort"

	"github.com/gantryworks/gantry/internal/trigger"
)

// Outcome is the collaborator's verdict on one trigger execution.
type Outcome struct {
	// OK reports whether the collaborator accepted and handled the
	// trigger. False is a permanent failure: the worker records it
	// and never retries.
	OK bool

	// Message is recorded on the trigger (failure reason or success
	// detail).
	Message string
}

// Executor runs one workflow trigger against an external collaborator.
// A returned error marks a transient, transport-class failure the
// worker retries with backoff; Outcome{OK: false} with a nil error is
// a collaborator-reported permanent failure.
type Executor interface {
	Execute(ctx context.Context, tr *trigger.Trigger) (Outcome, error)
}

// Registry maps trigger types to executors.
type Registry struct {
	executors map[string]Executor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// DefaultRegistry wires the shipped executors: webhook, codegen, log.
// The log executor writes its acknowledgements to out.
func DefaultRegistry(out io.Writer) *Registry {
	r := NewRegistry()
	r.Register("webhook", NewWebhook())
	r.Register("codegen", &CommandExecutor{})
	r.Register("log", &LogExecutor{Out: out})
	return r
}

// Register binds an executor to a trigger type, replacing any previous
// binding.
func (r *Registry) Register(triggerType string, e Executor) {
	r.executors[triggerType] = e
}

// Lookup returns the executor for a trigger type.
func (r *Registry) Lookup(triggerType string) (Executor, bool) {
	e, ok := r.executors[triggerType]
	return e, ok
}

// Types lists the registered trigger types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.executors))
	for t := range r.executors {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
