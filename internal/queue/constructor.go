package queue

import (
	"github.com/postcue/postcue/internal/publish"
	"github.com/postcue/postcue/internal/store"
)

// Worker consumes publish tasks when their instant arrives and re-invokes
// the coordinator in immediate mode.
type Worker struct {
	st store.Store
	co publish.Coordinator
}

func NewWorker(st store.Store, co publish.Coordinator) *Worker {
	return &Worker{st: st, co: co}
}

const TaskTypePublishItem = "publish:item"

type PublishItemPayload struct {
	ItemID string `json:"item_id"`
}
