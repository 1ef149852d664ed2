package queue_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/postcue/postcue/internal/engine"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/publish"
	"github.com/postcue/postcue/internal/queue"
	"github.com/postcue/postcue/internal/repository/repotest"
	"github.com/postcue/postcue/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCoordinator is a mock implementation of publish.Coordinator.
type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) Publish(ctx context.Context, itemID string, req publish.Request) (*publish.Report, error) {
	args := m.Called(ctx, itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Report), args.Error(1)
}

var _ publish.Coordinator = (*MockCoordinator)(nil)

func publishTask(t *testing.T, itemID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(queue.PublishItemPayload{ItemID: itemID})
	require.NoError(t, err)
	return asynq.NewTask(queue.TaskTypePublishItem, payload)
}

func newWorkerFixture(t *testing.T) (store.Store, engine.Engine, *MockCoordinator, *queue.Worker) {
	t.Helper()
	st := store.NewStore(repotest.NewContentItems(), repotest.NewPlatforms("instagram"))
	eng := engine.New(st)
	co := &MockCoordinator{}
	return st, eng, co, queue.NewWorker(st, co)
}

func TestWorkerPublishesDueItem(t *testing.T) {
	ctx := context.Background()
	_, eng, co, w := newWorkerFixture(t)

	item, err := eng.Create(ctx, "due now", nil, []string{"instagram"})
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	_, err = eng.Schedule(ctx, item.ID, past, nil)
	require.NoError(t, err)

	co.On("Publish", mock.Anything, item.ID, publish.Request{}).
		Return(&publish.Report{Item: item}, nil)

	require.NoError(t, w.HandlePublishItemTask(ctx, publishTask(t, item.ID)))
	co.AssertExpectations(t)
}

func TestWorkerSkipsDeletedItem(t *testing.T) {
	ctx := context.Background()
	_, _, co, w := newWorkerFixture(t)

	assert.NoError(t, w.HandlePublishItemTask(ctx, publishTask(t, "gone")))
	co.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerSkipsRevertedItem(t *testing.T) {
	ctx := context.Background()
	_, eng, co, w := newWorkerFixture(t)

	item, err := eng.Create(ctx, "changed my mind", nil, []string{"instagram"})
	require.NoError(t, err)

	assert.NoError(t, w.HandlePublishItemTask(ctx, publishTask(t, item.ID)))
	co.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerSkipsRescheduledItem(t *testing.T) {
	ctx := context.Background()
	_, eng, co, w := newWorkerFixture(t)

	item, err := eng.Create(ctx, "pushed back", nil, []string{"instagram"})
	require.NoError(t, err)
	later := time.Now().Add(48 * time.Hour)
	_, err = eng.Schedule(ctx, item.ID, later, nil)
	require.NoError(t, err)

	// The original task fires, but the item now points at a later instant;
	// the re-schedule armed its own task.
	assert.NoError(t, w.HandlePublishItemTask(ctx, publishTask(t, item.ID)))
	co.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerIgnoresTerminalRace(t *testing.T) {
	ctx := context.Background()
	_, eng, co, w := newWorkerFixture(t)

	item, err := eng.Create(ctx, "raced", nil, []string{"instagram"})
	require.NoError(t, err)
	_, err = eng.Schedule(ctx, item.ID, time.Now().Add(-time.Minute), nil)
	require.NoError(t, err)

	co.On("Publish", mock.Anything, item.ID, publish.Request{}).
		Return(nil, &models.TerminalStateError{ID: item.ID})

	// Published between the status check and the publish call: not retried.
	assert.NoError(t, w.HandlePublishItemTask(ctx, publishTask(t, item.ID)))
}
