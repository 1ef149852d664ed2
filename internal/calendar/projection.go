// Package calendar derives the read-only calendar view from the content
// item store. Projection is pure computation over already fetched items;
// the live View keeps itself current from store change notifications
// instead of re-fetching.
package calendar

import (
	"sort"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/schedule"
)

// Fixed per-status event colors.
const (
	ColorScheduled = "#6c8cff"
	ColorPublished = "#4caf7d"
)

// Filter narrows which items project onto the calendar. Empty slices match
// everything; the platform filter is inclusive-OR.
type Filter struct {
	Statuses    []string
	PlatformIDs []string
}

// Project maps items to calendar events, ordered by start time. Drafts
// never appear on the calendar; they live on the separate drafts surface.
func Project(items []*models.ContentItem, f Filter) []models.CalendarEvent {
	var events []models.CalendarEvent
	for _, item := range items {
		if ev, ok := eventFor(item, f); ok {
			events = append(events, ev)
		}
	}
	sortEvents(events)
	return events
}

func eventFor(item *models.ContentItem, f Filter) (models.CalendarEvent, bool) {
	if item.Status == models.StatusDraft || item.ScheduledAt == nil {
		return models.CalendarEvent{}, false
	}
	if !matchesStatus(item, f.Statuses) || !matchesPlatform(item, f.PlatformIDs) {
		return models.CalendarEvent{}, false
	}

	start := *item.ScheduledAt
	return models.CalendarEvent{
		ItemID: item.ID,
		Title:  item.Title,
		Start:  start,
		End:    schedule.WindowEnd(start, schedule.DefaultWindowMinutes),
		Status: item.Status,
		Color:  colorFor(item.Status),
	}, true
}

func colorFor(status string) string {
	if status == models.StatusPublished {
		return ColorPublished
	}
	return ColorScheduled
}

func matchesStatus(item *models.ContentItem, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if item.Status == s {
			return true
		}
	}
	return false
}

func matchesPlatform(item *models.ContentItem, platformIDs []string) bool {
	if len(platformIDs) == 0 {
		return true
	}
	for _, want := range platformIDs {
		for _, have := range item.PlatformIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

// sortEvents orders events by start, then id for a stable listing.
func sortEvents(events []models.CalendarEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ItemID < events[j].ItemID
		}
		return events[i].Start.Before(events[j].Start)
	})
}
