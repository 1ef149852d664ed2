// Package engine enforces the content item state machine. It is the only
// component allowed to change an item's status, and it serializes
// transitions per item id so two concurrent requests against the same item
// cannot interleave.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/store"
)

// DispatchFunc runs inside the item's lock during PublishNow, between the
// terminal-state check and the status write. The publish coordinator uses it
// to fan out to platforms exactly once per publish action.
type DispatchFunc func(item *models.ContentItem)

type Engine interface {
	Create(ctx context.Context, caption string, mediaRefs, platformIDs []string) (*models.ContentItem, error)
	Save(ctx context.Context, id string, patch store.Patch) (*models.ContentItem, error)
	Schedule(ctx context.Context, id string, at time.Time, platformIDs []string) (*models.ContentItem, error)
	RevertToDraft(ctx context.Context, id string) (*models.ContentItem, error)
	PublishNow(ctx context.Context, id string, platformIDs []string, at time.Time, dispatch DispatchFunc) (*models.ContentItem, error)
}

type transitionEngine struct {
	st    store.Store
	locks *itemLocks
}

func New(st store.Store) Engine {
	return &transitionEngine{st: st, locks: newItemLocks()}
}

// Create always starts an item as a draft. A caller that wants a scheduled
// item follows up with Schedule; the two-step path keeps every status change
// inside the transition table.
func (e *transitionEngine) Create(ctx context.Context, caption string, mediaRefs, platformIDs []string) (*models.ContentItem, error) {
	return e.st.Create(ctx, caption, mediaRefs, platformIDs)
}

// Save applies a content edit without changing status. Edits to scheduled
// items re-validate the schedule preconditions so an edit path can never
// sneak past what the schedule path enforces.
func (e *transitionEngine) Save(ctx context.Context, id string, patch store.Patch) (*models.ContentItem, error) {
	unlock := e.locks.Acquire(id)
	defer unlock()

	item, err := e.st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusPublished {
		return nil, &models.TerminalStateError{ID: id}
	}

	if item.Status == models.StatusScheduled {
		platforms := item.PlatformIDs
		if patch.PlatformIDs != nil {
			platforms = *patch.PlatformIDs
		}
		if len(platforms) == 0 {
			return nil, &models.ValidationError{Field: "platformIds"}
		}
		if item.ScheduledAt == nil {
			return nil, &models.ValidationError{Field: "scheduledAt"}
		}
	}

	return e.st.Update(ctx, id, patch)
}

func (e *transitionEngine) Schedule(ctx context.Context, id string, at time.Time, platformIDs []string) (*models.ContentItem, error) {
	unlock := e.locks.Acquire(id)
	defer unlock()

	item, err := e.st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusPublished {
		return nil, &models.TerminalStateError{ID: id}
	}

	platforms := platformIDs
	if platforms == nil {
		platforms = item.PlatformIDs
	}
	if len(platforms) == 0 {
		return nil, &models.ValidationError{Field: "platformIds"}
	}
	if at.IsZero() {
		return nil, &models.ValidationError{Field: "scheduledAt"}
	}

	slog.Info("scheduling content item", "item_id", id, "scheduled_at", at)
	return e.st.ApplyTransition(ctx, id, models.StatusScheduled, &at, platforms)
}

// RevertToDraft moves a scheduled item back to draft on explicit user
// action, clearing its resolved instant.
func (e *transitionEngine) RevertToDraft(ctx context.Context, id string) (*models.ContentItem, error) {
	unlock := e.locks.Acquire(id)
	defer unlock()

	item, err := e.st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusPublished {
		return nil, &models.TerminalStateError{ID: id}
	}
	if item.Status != models.StatusScheduled {
		return item, nil
	}

	return e.st.ApplyTransition(ctx, id, models.StatusDraft, nil, nil)
}

// PublishNow finalizes a publish action. The dispatch callback runs while
// the item's lock is held and after the terminal-state check, so a second
// concurrent publish of the same item blocks, then sees the published state
// and fails without dispatching again.
func (e *transitionEngine) PublishNow(ctx context.Context, id string, platformIDs []string, at time.Time, dispatch DispatchFunc) (*models.ContentItem, error) {
	unlock := e.locks.Acquire(id)
	defer unlock()

	item, err := e.st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status == models.StatusPublished {
		return nil, &models.TerminalStateError{ID: id}
	}

	platforms := unionPlatforms(item.PlatformIDs, platformIDs)
	if len(platforms) == 0 {
		return nil, &models.ValidationError{Field: "platformIds"}
	}

	if dispatch != nil {
		target := item.Clone()
		target.PlatformIDs = platforms
		dispatch(target)
	}

	slog.Info("publishing content item", "item_id", id, "platforms", platforms)
	return e.st.ApplyTransition(ctx, id, models.StatusPublished, &at, platforms)
}

// unionPlatforms keeps the stored order and appends any newly requested
// platform that is not already targeted.
func unionPlatforms(existing, requested []string) []string {
	out := append([]string(nil), existing...)
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p] = struct{}{}
	}
	for _, p := range requested {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
