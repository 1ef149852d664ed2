package calendar_test

import (
	"testing"
	"time"

	"github.com/postcue/postcue/internal/calendar"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/schedule"
	"github.com/postcue/postcue/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledItem(id string, at time.Time, platforms ...string) *models.ContentItem {
	return &models.ContentItem{
		ID:          id,
		Caption:     "caption " + id,
		Title:       models.TitleFor("caption " + id),
		PlatformIDs: platforms,
		Status:      models.StatusScheduled,
		ScheduledAt: &at,
	}
}

func TestProjectExcludesDrafts(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)
	pub := scheduledItem("p1", at.Add(time.Hour), "instagram")
	pub.Status = models.StatusPublished

	items := []*models.ContentItem{
		{ID: "d1", Status: models.StatusDraft},
		scheduledItem("s1", at, "instagram"),
		pub,
	}

	events := calendar.Project(items, calendar.Filter{})
	require.Len(t, events, 2)

	byID := map[string]models.CalendarEvent{}
	for _, ev := range events {
		byID[ev.ItemID] = ev
	}
	assert.NotContains(t, byID, "d1")
	assert.Equal(t, calendar.ColorScheduled, byID["s1"].Color)
	assert.Equal(t, calendar.ColorPublished, byID["p1"].Color)
	assert.NotEqual(t, byID["s1"].Color, byID["p1"].Color)
}

func TestProjectEventWindow(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)
	events := calendar.Project([]*models.ContentItem{scheduledItem("s1", at, "instagram")}, calendar.Filter{})

	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Start)
	assert.Equal(t, schedule.WindowEnd(at, schedule.DefaultWindowMinutes), events[0].End)
	assert.Equal(t, "s1", events[0].ItemID)
	assert.Equal(t, "caption s1", events[0].Title)
}

func TestProjectPlatformFilterIsInclusiveOR(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	items := []*models.ContentItem{
		scheduledItem("a", at, "instagram"),
		scheduledItem("b", at, "tiktok"),
		scheduledItem("c", at, "youtube", "instagram"),
	}

	events := calendar.Project(items, calendar.Filter{PlatformIDs: []string{"tiktok", "youtube"}})
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].ItemID)
	assert.Equal(t, "c", events[1].ItemID)
}

func TestProjectOrdersByStart(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	items := []*models.ContentItem{
		scheduledItem("late", at.Add(2*time.Hour), "instagram"),
		scheduledItem("early", at, "instagram"),
		scheduledItem("mid", at.Add(time.Hour), "tiktok"),
	}

	events := calendar.Project(items, calendar.Filter{})
	require.Len(t, events, 3)
	assert.Equal(t, "early", events[0].ItemID)
	assert.Equal(t, "mid", events[1].ItemID)
	assert.Equal(t, "late", events[2].ItemID)
}

func TestViewReconciliation(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 0, 0, time.Local)

	var listener store.Listener
	sub := subscriberFunc(func(l store.Listener) { listener = l })

	view := calendar.NewView(sub, nil, calendar.Filter{})
	require.NotNil(t, listener)
	assert.Empty(t, view.Events())

	// A draft becoming scheduled surfaces a new event without a re-fetch.
	item := scheduledItem("s1", at, "instagram")
	listener(store.Change{Kind: store.ChangeUpdated, ID: item.ID, Item: item})
	events := view.Events()
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Start)

	// A time change updates the event in place, never duplicating it.
	moved := scheduledItem("s1", at.Add(2*time.Hour), "instagram")
	listener(store.Change{Kind: store.ChangeUpdated, ID: moved.ID, Item: moved})
	events = view.Events()
	require.Len(t, events, 1)
	assert.Equal(t, at.Add(2*time.Hour), events[0].Start)
	assert.Equal(t, schedule.WindowEnd(at.Add(2*time.Hour), schedule.DefaultWindowMinutes), events[0].End)

	// Reverting to draft removes the event.
	draft := &models.ContentItem{ID: "s1", Status: models.StatusDraft}
	listener(store.Change{Kind: store.ChangeUpdated, ID: draft.ID, Item: draft})
	assert.Empty(t, view.Events())

	// Deletion removes unconditionally.
	listener(store.Change{Kind: store.ChangeUpdated, ID: item.ID, Item: item})
	require.Len(t, view.Events(), 1)
	listener(store.Change{Kind: store.ChangeDeleted, ID: item.ID})
	assert.Empty(t, view.Events())
}

func TestViewSeedsFromInitialItems(t *testing.T) {
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	items := []*models.ContentItem{
		{ID: "d1", Status: models.StatusDraft},
		scheduledItem("s2", at.Add(time.Hour), "tiktok"),
		scheduledItem("s1", at, "instagram"),
	}

	view := calendar.NewView(subscriberFunc(func(store.Listener) {}), items, calendar.Filter{})

	events := view.Events()
	require.Len(t, events, 2)
	// Ordered by start.
	assert.Equal(t, "s1", events[0].ItemID)
	assert.Equal(t, "s2", events[1].ItemID)
}

type subscriberFunc func(store.Listener)

func (f subscriberFunc) Subscribe(l store.Listener) { f(l) }
