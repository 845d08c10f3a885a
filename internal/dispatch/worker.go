package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/store"
	"github.com/gantryworks/gantry/internal/trigger"
	"github.com/gantryworks/gantry/internal/watcher"
)

// wakeDebounce is the watcher debounce for the dispatch worker. Wider
// than the TUI default so a burst of trigger writes drains once.
const wakeDebounce = 250 * time.Millisecond

// WorkerConfig tunes the dispatch worker.
type WorkerConfig struct {
	Workers        int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	PollInterval   time.Duration
}

// WorkerConfigFrom derives the worker tuning from workspace config.
func WorkerConfigFrom(cfg *config.Config) WorkerConfig {
	return WorkerConfig{
		Workers:        cfg.Dispatch.Workers,
		MaxAttempts:    cfg.Dispatch.MaxAttempts,
		InitialBackoff: cfg.InitialBackoffDuration(),
		MaxBackoff:     cfg.MaxBackoffDuration(),
		PollInterval:   cfg.PollIntervalDuration(),
	}
}

// Summary counts what one worker run did.
type Summary struct {
	Dispatched int `json:"dispatched"`
	Succeeded  int `json:"succeeded"`
	Failed     int `json:"failed"`
}

// Worker claims pending triggers and runs them through registered
// executors on a fixed-size goroutine pool. Claims go through the
// store lock, so concurrent workers on the same workspace never run
// the same trigger twice.
type Worker struct {
	store *store.Store
	reg   *Registry
	cfg   WorkerConfig
	out   io.Writer

	mu  sync.Mutex
	sum Summary
}

// NewWorker builds a worker over the store. Zero config values fall
// back to safe minimums.
func NewWorker(st *store.Store, reg *Registry, cfg WorkerConfig, out io.Writer) *Worker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Worker{store: st, reg: reg, cfg: cfg, out: out}
}

// RunOnce drains the currently pending triggers and returns. Triggers
// created while the drain is running are left for the next invocation.
func (w *Worker) RunOnce(ctx context.Context) (Summary, error) {
	ids := make(chan string)
	done := w.startPool(ctx, ids)

	err := w.enqueuePending(ctx, ids)
	close(ids)
	<-done

	return w.summary(), err
}

// Run drains pending triggers and keeps serving until the context is
// canceled: it wakes on trigger-directory changes and additionally
// polls at the configured interval in case an event is missed.
func (w *Worker) Run(ctx context.Context) (Summary, error) {
	ids := make(chan string)
	done := w.startPool(ctx, ids)

	err := w.serve(ctx, ids)
	close(ids)
	<-done

	return w.summary(), err
}

func (w *Worker) startPool(ctx context.Context, ids <-chan string) <-chan struct{} {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				w.process(ctx, id)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}

func (w *Worker) serve(ctx context.Context, ids chan<- string) error {
	if err := w.enqueuePending(ctx, ids); err != nil {
		return err
	}

	wake := make(chan struct{}, 1)
	fw, err := watcher.NewDebounced(
		[]string{w.store.Config().TriggersPath()},
		wakeDebounce,
		func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
	if err != nil {
		return err
	}
	defer fw.Close()
	go fw.Run(ctx, nil)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		case <-ticker.C:
		}
		if err := w.enqueuePending(ctx, ids); err != nil {
			return err
		}
	}
}

func (w *Worker) enqueuePending(ctx context.Context, ids chan<- string) error {
	pending, err := w.store.PendingTriggers()
	if err != nil {
		return err
	}
	for _, tr := range pending {
		select {
		case <-ctx.Done():
			return nil
		case ids <- tr.ID:
		}
	}
	return nil
}

// process claims and executes one trigger, retrying transient failures
// with exponential backoff up to the attempt cap.
func (w *Worker) process(ctx context.Context, id string) {
	tr, err := w.store.ClaimTrigger(id)
	if err != nil {
		fmt.Fprintf(w.out, "claim %s: %v\n", short(id), err)
		return
	}
	if tr == nil {
		return // no longer pending; another worker got there first
	}

	w.mu.Lock()
	w.sum.Dispatched++
	w.mu.Unlock()

	exec, ok := w.reg.Lookup(tr.Type)
	if !ok {
		w.resolve(tr, false, 1, "no executor registered for type "+tr.Type)
		return
	}

	attempts := 0
	backoff := w.cfg.InitialBackoff
	for {
		attempts++
		out, err := exec.Execute(ctx, tr)
		if err == nil {
			if out.OK {
				w.resolve(tr, true, attempts, "")
			} else {
				w.resolve(tr, false, attempts, out.Message)
			}
			return
		}
		if attempts >= w.cfg.MaxAttempts {
			w.resolve(tr, false, attempts, err.Error())
			return
		}
		select {
		case <-ctx.Done():
			w.resolve(tr, false, attempts, err.Error()+" (canceled before retry)")
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > w.cfg.MaxBackoff {
			backoff = w.cfg.MaxBackoff
		}
	}
}

func (w *Worker) resolve(tr *trigger.Trigger, ok bool, attempts int, lastErr string) {
	if _, err := w.store.ResolveTrigger(tr.ID, ok, attempts, lastErr); err != nil {
		fmt.Fprintf(w.out, "resolve %s: %v\n", short(tr.ID), err)
	}

	w.mu.Lock()
	if ok {
		w.sum.Succeeded++
	} else {
		w.sum.Failed++
	}
	w.mu.Unlock()

	verdict := "succeeded"
	if !ok {
		verdict = "failed"
	}
	line := fmt.Sprintf("%s %s #%d: %s", short(tr.ID), tr.Type, tr.TaskID, verdict)
	if attempts > 1 {
		line += fmt.Sprintf(" (%d attempts)", attempts)
	}
	if !ok && lastErr != "" {
		line += ": " + lastErr
	}
	fmt.Fprintln(w.out, line)
}

func (w *Worker) summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sum
}

// short returns the first uuid segment, enough to identify a trigger
// in worker logs.
func short(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
