package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gantryworks/gantry/internal/clierr"
	"github.com/gantryworks/gantry/internal/config"
	"github.com/gantryworks/gantry/internal/task"
	"github.com/gantryworks/gantry/internal/trigger"
)

// CreateTrigger creates a pending workflow trigger for a task.
//
// At most one active trigger may exist per task and type. Re-issuing
// the same request (same config) is an idempotent no-op that returns
// the existing record with alreadyExists set. Requesting the same
// type with a different config fails with DuplicateTrigger: the caller
// meant something new, and silently returning the old record would
// hide that.
func (s *Store) CreateTrigger(taskID int, triggerType string, triggerConfig map[string]string) (tr *trigger.Trigger, alreadyExists bool, err error) {
	err = s.withLock(func(cfg *config.Config) error {
		if err := trigger.ValidateType(triggerType); err != nil {
			return err
		}
		if _, err := task.FindByID(cfg.TasksPath(), taskID); err != nil {
			return err
		}

		all, err := trigger.ReadAll(cfg.TriggersPath())
		if err != nil {
			return err
		}
		key := trigger.DedupeKey(taskID, triggerType)
		for _, existing := range all {
			if existing.DedupeKey != key || !trigger.Active(existing.Status) {
				continue
			}
			if !trigger.ConfigEqual(existing.Config, triggerConfig) {
				return clierr.Newf(clierr.DuplicateTrigger,
					"an active %s trigger already exists for task #%d with different configuration",
					triggerType, taskID).
					WithDetails(map[string]any{
						"task_id":     taskID,
						"type":        triggerType,
						"existing_id": existing.ID,
					})
			}
			tr, alreadyExists = existing, true
			return nil
		}

		created := trigger.New(taskID, triggerType, triggerConfig)
		path := filepath.Join(cfg.TriggersPath(), trigger.Filename(created.ID))
		created.File = path
		if err := trigger.Write(path, created); err != nil {
			return fmt.Errorf("writing trigger: %w", err)
		}

		s.publish(Event{
			Kind:      EventTriggerCreated,
			TaskID:    taskID,
			TriggerID: created.ID,
			Detail:    triggerType,
		})
		tr = created
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return tr, alreadyExists, nil
}

// GetTrigger finds a trigger by full id or unique id prefix.
func (s *Store) GetTrigger(id string) (*trigger.Trigger, error) {
	all, err := trigger.ReadAll(s.cfg.TriggersPath())
	if err != nil {
		return nil, err
	}

	var matches []*trigger.Trigger
	for _, tr := range all {
		if tr.ID == id {
			return tr, nil
		}
		if strings.HasPrefix(tr.ID, id) {
			matches = append(matches, tr)
		}
	}

	switch len(matches) {
	case 0:
		return nil, clierr.Newf(clierr.NotFound, "trigger not found: %s", id).
			WithDetails(map[string]any{"kind": "trigger", "id": id})
	case 1:
		return matches[0], nil
	default:
		return nil, clierr.Newf(clierr.InvalidInput,
			"trigger id %q is ambiguous (%d matches)", id, len(matches)).
			WithDetails(map[string]any{"id": id, "matches": len(matches)})
	}
}

// ListTriggers reads all trigger records, oldest first.
func (s *Store) ListTriggers() ([]*trigger.Trigger, error) {
	return trigger.ReadAll(s.cfg.TriggersPath())
}

// PendingTriggers returns triggers still waiting for dispatch.
func (s *Store) PendingTriggers() ([]*trigger.Trigger, error) {
	all, err := trigger.ReadAll(s.cfg.TriggersPath())
	if err != nil {
		return nil, err
	}
	var pending []*trigger.Trigger
	for _, tr := range all {
		if tr.Status == trigger.StatusPending {
			pending = append(pending, tr)
		}
	}
	return pending, nil
}

// ClaimTrigger moves a pending trigger to dispatched on behalf of a
// dispatch worker. Returns nil without error when the trigger is no
// longer pending: another worker won the claim, and the loser just
// moves on.
func (s *Store) ClaimTrigger(id string) (*trigger.Trigger, error) {
	var claimed *trigger.Trigger
	err := s.withLock(func(cfg *config.Config) error {
		tr, err := readTriggerExact(cfg, id)
		if err != nil {
			return err
		}
		if tr.Status != trigger.StatusPending {
			return nil
		}

		now := time.Now()
		tr.Status = trigger.StatusDispatched
		tr.DispatchedAt = &now
		tr.Updated = now
		if err := trigger.Write(tr.File, tr); err != nil {
			return fmt.Errorf("writing trigger: %w", err)
		}

		s.publish(Event{
			Kind:      EventTriggerDispatched,
			TaskID:    tr.TaskID,
			TriggerID: tr.ID,
			Detail:    tr.Type,
		})
		claimed = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// ResolveTrigger records the final outcome of a dispatched trigger.
// attempts is the total number of executor calls made; lastErr is
// recorded on failure and cleared on success. Only dispatched triggers
// can be resolved.
func (s *Store) ResolveTrigger(id string, succeeded bool, attempts int, lastErr string) (*trigger.Trigger, error) {
	target := trigger.StatusFailed
	kind := EventTriggerFailed
	if succeeded {
		target = trigger.StatusSucceeded
		kind = EventTriggerSucceeded
	}

	var resolved *trigger.Trigger
	err := s.withLock(func(cfg *config.Config) error {
		tr, err := readTriggerExact(cfg, id)
		if err != nil {
			return err
		}
		if !trigger.CanTransition(tr.Status, target) {
			return clierr.Newf(clierr.InvalidTransition,
				"trigger %s cannot move from %s to %s", tr.ID, tr.Status, target).
				WithDetails(map[string]any{
					"id":   tr.ID,
					"from": tr.Status,
					"to":   target,
				})
		}

		now := time.Now()
		tr.Status = target
		tr.Attempts = attempts
		tr.LastError = lastErr
		if succeeded {
			tr.LastError = ""
		}
		tr.CompletedAt = &now
		tr.Updated = now
		if err := trigger.Write(tr.File, tr); err != nil {
			return fmt.Errorf("writing trigger: %w", err)
		}

		detail := tr.Type
		if !succeeded && lastErr != "" {
			detail = fmt.Sprintf("%s: %s", tr.Type, lastErr)
		}
		s.publish(Event{Kind: kind, TaskID: tr.TaskID, TriggerID: tr.ID, Detail: detail})
		resolved = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// CancelTrigger cancels a trigger that has not been dispatched yet.
// Anything past pending is either in flight or settled and can only
// be observed.
func (s *Store) CancelTrigger(id string) (*trigger.Trigger, error) {
	var cancelled *trigger.Trigger
	err := s.withLock(func(cfg *config.Config) error {
		tr, err := readTriggerExact(cfg, id)
		if err != nil {
			return err
		}
		if tr.Status != trigger.StatusPending {
			return clierr.Newf(clierr.TriggerNotCancellable,
				"trigger %s is %s; only pending triggers can be cancelled", tr.ID, tr.Status).
				WithDetails(map[string]any{"id": tr.ID, "status": tr.Status})
		}

		now := time.Now()
		tr.Status = trigger.StatusCancelled
		tr.CompletedAt = &now
		tr.Updated = now
		if err := trigger.Write(tr.File, tr); err != nil {
			return fmt.Errorf("writing trigger: %w", err)
		}

		s.publish(Event{
			Kind:      EventTriggerCancelled,
			TaskID:    tr.TaskID,
			TriggerID: tr.ID,
			Detail:    tr.Type,
		})
		cancelled = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// readTriggerExact reads a trigger by exact id from disk inside the
// lock. Prefix resolution happens outside via GetTrigger; state
// transitions always re-read the exact record.
func readTriggerExact(cfg *config.Config, id string) (*trigger.Trigger, error) {
	path := filepath.Join(cfg.TriggersPath(), trigger.Filename(id))
	tr, err := trigger.Read(path)
	if err != nil {
		return nil, clierr.Newf(clierr.NotFound, "trigger not found: %s", id).
			WithDetails(map[string]any{"kind": "trigger", "id": id})
	}
	return tr, nil
}
