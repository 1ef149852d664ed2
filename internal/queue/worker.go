package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/publish"
)

func (w *Worker) HandlePublishItemTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishItemPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// The item may have been deleted, reverted to draft, published by
	// hand, or re-scheduled for later since this task was armed. A task
	// whose item no longer matches is stale and dropped; re-scheduling
	// armed its own task.
	item, err := w.st.Get(ctx, payload.ItemID)
	if err != nil {
		var nf *models.NotFoundError
		if errors.As(err, &nf) {
			log.Printf("Skipping publish task for deleted item %s", payload.ItemID)
			return nil
		}
		return err
	}
	if item.Status != models.StatusScheduled {
		log.Printf("Skipping publish task for item %s in status %s", payload.ItemID, item.Status)
		return nil
	}
	if item.ScheduledAt == nil || item.ScheduledAt.After(time.Now()) {
		log.Printf("Skipping early publish task for item %s", payload.ItemID)
		return nil
	}

	report, err := w.co.Publish(ctx, payload.ItemID, publish.Request{})
	if err != nil {
		var ts *models.TerminalStateError
		if errors.As(err, &ts) {
			return nil
		}
		return err
	}

	for _, outcome := range report.Outcomes {
		if outcome.Error != "" {
			log.Printf("Error publishing item %s to %s: %s", payload.ItemID, outcome.PlatformID, outcome.Error)
		}
	}

	return nil
}
