package calendar

import (
	"sync"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/store"
)

// Subscriber is the slice of the store the view needs: a change feed to
// attach to.
type Subscriber interface {
	Subscribe(store.Listener)
}

// View is a live calendar projection. It subscribes to store changes and
// reconciles each write in place, keyed by source item id, so an open
// calendar never needs a full re-fetch and never shows a duplicated event.
type View struct {
	mu     sync.RWMutex
	filter Filter
	events map[string]models.CalendarEvent
}

// NewView builds a view over an initial item set and subscribes it to the
// store's change feed.
func NewView(st Subscriber, items []*models.ContentItem, f Filter) *View {
	v := &View{
		filter: f,
		events: make(map[string]models.CalendarEvent),
	}
	for _, ev := range Project(items, f) {
		v.events[ev.ItemID] = ev
	}
	st.Subscribe(v.Apply)
	return v
}

// Apply reconciles one store change. An item leaving calendar scope (revert
// to draft, delete, filtered out) removes its event; otherwise the event is
// added or replaced under its item id.
func (v *View) Apply(ch store.Change) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ch.Kind == store.ChangeDeleted {
		delete(v.events, ch.ID)
		return
	}

	ev, ok := eventFor(ch.Item, v.filter)
	if !ok {
		delete(v.events, ch.ID)
		return
	}
	v.events[ch.ID] = ev
}

// Events returns the current projection ordered by start time.
func (v *View) Events() []models.CalendarEvent {
	v.mu.RLock()
	defer v.mu.RUnlock()

	events := make([]models.CalendarEvent, 0, len(v.events))
	for _, ev := range v.events {
		events = append(events, ev)
	}
	sortEvents(events)
	return events
}
