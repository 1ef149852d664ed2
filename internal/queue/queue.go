package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Trigger is the asynq-backed scheduled-trigger collaborator. Arming it
// enqueues a publish task that fires at the resolved instant.
type Trigger struct {
	client *asynq.Client
}

func NewTrigger(client *asynq.Client) *Trigger {
	return &Trigger{client: client}
}

func (t *Trigger) ScheduleAt(ctx context.Context, itemID string, at time.Time) error {
	payload, err := json.Marshal(PublishItemPayload{ItemID: itemID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishItem, payload)

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	_, err = t.client.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	log.Printf("Publish task armed: item=%s at=%s", itemID, at)
	return nil
}
