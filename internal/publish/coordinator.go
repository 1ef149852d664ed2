// Package publish coordinates the publish action: immediate fan-out to the
// dispatch collaborator, or a deferred schedule handed to the trigger
// collaborator.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/postcue/postcue/internal/engine"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/repository"
)

// concurrency limit for per-platform dispatch fan-out.
const dispatchConcurrency = 10

// Dispatcher is the delivery boundary. Implementations hand the item to one
// platform and must tolerate being retried by the caller's own policy.
type Dispatcher interface {
	Dispatch(ctx context.Context, item *models.ContentItem, platformID string) (*models.DeliveryReceipt, error)
}

// Trigger is the scheduled-trigger collaborator: at or after the instant it
// re-invokes the coordinator in immediate mode for the item.
type Trigger interface {
	ScheduleAt(ctx context.Context, itemID string, at time.Time) error
}

// Request describes one publish action. A nil At means immediate. The
// platform set may extend the item's stored set; the stored set becomes the
// union actually published to.
type Request struct {
	PlatformIDs []string   `json:"platform_ids"`
	At          *time.Time `json:"at,omitempty"`
}

// Outcome is the per-platform result of an immediate publish.
type Outcome struct {
	PlatformID string                  `json:"platform_id"`
	Receipt    *models.DeliveryReceipt `json:"receipt,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// Report is the partial-failure result of a publish action. For an
// immediate publish the item is published even when some outcomes failed;
// "published" records that publish was attempted with this platform set, not
// that every platform confirmed delivery.
type Report struct {
	Item     *models.ContentItem `json:"item"`
	Outcomes []Outcome           `json:"outcomes,omitempty"`
}

type Coordinator interface {
	Publish(ctx context.Context, itemID string, req Request) (*Report, error)
}

type coordinator struct {
	eng        engine.Engine
	dispatcher Dispatcher
	trigger    Trigger
	history    repository.DeliveryHistoryRepository
}

func NewCoordinator(eng engine.Engine, dispatcher Dispatcher, trigger Trigger, history repository.DeliveryHistoryRepository) Coordinator {
	return &coordinator{
		eng:        eng,
		dispatcher: dispatcher,
		trigger:    trigger,
		history:    history,
	}
}

func (c *coordinator) Publish(ctx context.Context, itemID string, req Request) (*Report, error) {
	if req.At != nil {
		return c.schedule(ctx, itemID, req)
	}
	return c.immediate(ctx, itemID, req)
}

func (c *coordinator) schedule(ctx context.Context, itemID string, req Request) (*Report, error) {
	item, err := c.eng.Schedule(ctx, itemID, *req.At, req.PlatformIDs)
	if err != nil {
		return nil, err
	}

	if c.trigger != nil {
		if err := c.trigger.ScheduleAt(ctx, itemID, *req.At); err != nil {
			// Roll the transition back so an error means nothing was armed.
			// If the rollback itself fails the item stays scheduled and the
			// overdue sweep publishes it once the instant passes.
			if _, rerr := c.eng.RevertToDraft(ctx, itemID); rerr != nil {
				slog.Error("error reverting after trigger failure", "item_id", itemID, "error", rerr)
				return nil, fmt.Errorf("error arming publish trigger, item left scheduled for the overdue sweep: %w", err)
			}
			return nil, fmt.Errorf("error arming publish trigger: %w", err)
		}
	}

	return &Report{Item: item}, nil
}

func (c *coordinator) immediate(ctx context.Context, itemID string, req Request) (*Report, error) {
	var outcomes []Outcome

	item, err := c.eng.PublishNow(ctx, itemID, req.PlatformIDs, time.Now(), func(target *models.ContentItem) {
		outcomes = c.fanOut(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	return &Report{Item: item, Outcomes: outcomes}, nil
}

// fanOut dispatches to each platform independently; one platform's failure
// never blocks the others. Dispatch that has begun runs to completion even
// if the caller's context is cancelled mid-flight.
func (c *coordinator) fanOut(ctx context.Context, item *models.ContentItem) []Outcome {
	// Detached so closing the dialog that triggered the publish cannot
	// cancel an in-flight delivery.
	dctx := context.WithoutCancel(ctx)

	outcomes := make([]Outcome, len(item.PlatformIDs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, dispatchConcurrency)

	for i, platformID := range item.PlatformIDs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, platformID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			outcome := Outcome{PlatformID: platformID}
			receipt, err := c.dispatcher.Dispatch(dctx, item, platformID)
			if err != nil {
				derr := &DeliveryError{PlatformID: platformID, Err: err}
				outcome.Error = derr.Error()
				slog.Error("dispatch failed", "item_id", item.ID, "platform_id", platformID, "error", err)
			} else {
				outcome.Receipt = receipt
			}
			outcomes[i] = outcome

			c.recordOutcome(dctx, item.ID, outcome)
		}(i, platformID)
	}

	wg.Wait()
	return outcomes
}

func (c *coordinator) recordOutcome(ctx context.Context, itemID string, outcome Outcome) {
	if c.history == nil {
		return
	}

	dh := models.DeliveryHistory{
		ItemID:       itemID,
		PlatformID:   outcome.PlatformID,
		ErrorMessage: outcome.Error,
	}
	if outcome.Receipt != nil {
		dh.Reference = outcome.Receipt.Reference
	}
	if _, err := c.history.Create(ctx, &dh); err != nil {
		slog.Error("error saving delivery history", "item_id", itemID, "platform_id", outcome.PlatformID, "error", err)
	}
}
