package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/publish"
	"github.com/postcue/postcue/internal/repository"
)

// gracePeriod keeps the sweep from racing the queue worker on items whose
// instant just passed.
const gracePeriod = 5 * time.Minute

// OverdueSweepJob is the safety net behind the queue trigger: any item still
// scheduled well past its instant (missed task, Redis flush, downtime) gets
// published by the same coordinator path the trigger uses.
type OverdueSweepJob struct {
	ir repository.ContentItemRepository
	co publish.Coordinator
}

func NewOverdueSweepJob(ir repository.ContentItemRepository, co publish.Coordinator) *OverdueSweepJob {
	return &OverdueSweepJob{ir: ir, co: co}
}

func (j *OverdueSweepJob) SweepOverdue() {
	ctx := context.Background()

	cutoff := time.Now().Add(-gracePeriod)
	items, err := j.ir.ListScheduledBefore(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, item := range items {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(item *models.ContentItem) {
			defer wg.Done()
			defer func() { <-semaphore }()

			report, err := j.co.Publish(ctx, item.ID, publish.Request{})
			if err != nil {
				// Published or deleted between the list and the publish
				// means another path got there first.
				var ts *models.TerminalStateError
				var nf *models.NotFoundError
				if !errors.As(err, &ts) && !errors.As(err, &nf) {
					slog.Error("overdue publish failed", "item_id", item.ID, "error", err)
				}
				return
			}

			slog.Info("published overdue item", "item_id", item.ID, "platforms", len(report.Outcomes))
		}(item)
	}

	wg.Wait()
}
