package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postcue/postcue/internal/calendar"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/store"
)

type CalendarHandler struct {
	st   store.Store
	view *calendar.View
}

func NewCalendarHandler(st store.Store, view *calendar.View) *CalendarHandler {
	return &CalendarHandler{st: st, view: view}
}

// GetEvents serves calendar events. The unfiltered calendar comes straight
// from the live view, which tracks store writes without re-fetching;
// filtered requests project a fresh listing. Drafts never appear either way.
func (h *CalendarHandler) GetEvents(c *fiber.Ctx) error {
	filter := calendar.Filter{
		Statuses:    csvQuery(c, "status"),
		PlatformIDs: csvQuery(c, "platforms"),
	}

	if len(filter.Statuses) == 0 && len(filter.PlatformIDs) == 0 && h.view != nil {
		return c.Status(fiber.StatusOK).JSON(h.view.Events())
	}

	items, err := h.st.List(c.Context(), store.Filter{
		Statuses:    []string{models.StatusScheduled, models.StatusPublished},
		PlatformIDs: filter.PlatformIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	events := calendar.Project(items, filter)
	if events == nil {
		events = []models.CalendarEvent{}
	}
	return c.Status(fiber.StatusOK).JSON(events)
}
