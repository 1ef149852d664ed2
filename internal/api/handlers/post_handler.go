package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/postcue/postcue/internal/engine"
	"github.com/postcue/postcue/internal/publish"
	"github.com/postcue/postcue/internal/repository"
	"github.com/postcue/postcue/internal/store"
	"github.com/postcue/postcue/internal/transfer"
)

type PostHandler struct {
	st  store.Store
	eng engine.Engine
	co  publish.Coordinator
	dh  repository.DeliveryHistoryRepository
}

func NewPostHandler(st store.Store, eng engine.Engine, co publish.Coordinator, dh repository.DeliveryHistoryRepository) *PostHandler {
	return &PostHandler{st: st, eng: eng, co: co, dh: dh}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var pc transfer.PostCreation
	if err := c.BodyParser(&pc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	// Resolve before creating so a bad date/time pair leaves nothing
	// behind.
	wantSchedule := !pc.SaveAsDraft && (pc.Date != "" || pc.Time != "")
	var report *publish.Report
	if wantSchedule {
		at, err := resolveDateTime(pc.Date, pc.Time)
		if err != nil {
			return respondError(c, err)
		}

		item, err := h.eng.Create(c.Context(), pc.Caption, pc.MediaRefs, pc.PlatformIDs)
		if err != nil {
			return respondError(c, err)
		}
		report, err = h.co.Publish(c.Context(), item.ID, publish.Request{PlatformIDs: pc.PlatformIDs, At: &at})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(report.Item)
	}

	item, err := h.eng.Create(c.Context(), pc.Caption, pc.MediaRefs, pc.PlatformIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	items, err := h.st.List(c.Context(), store.Filter{
		Statuses:    csvQuery(c, "status"),
		PlatformIDs: csvQuery(c, "platforms"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(items)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	item, err := h.st.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(item)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	id := c.Params("id")

	var pu transfer.PostUpdate
	if err := c.BodyParser(&pu); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	// Resolve before saving so a bad date/time pair leaves the item
	// untouched.
	var at *time.Time
	if pu.Date != nil || pu.Time != nil {
		var date, clock string
		if pu.Date != nil {
			date = *pu.Date
		}
		if pu.Time != nil {
			clock = *pu.Time
		}
		resolved, err := resolveDateTime(date, clock)
		if err != nil {
			return respondError(c, err)
		}
		at = &resolved
	}

	item, err := h.eng.Save(c.Context(), id, store.Patch{
		Caption:     pu.Caption,
		MediaRefs:   pu.MediaRefs,
		PlatformIDs: pu.PlatformIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	// A new date/time pair on a scheduled item re-resolves from scratch
	// and re-arms the trigger.
	if at != nil {
		report, err := h.co.Publish(c.Context(), id, publish.Request{At: at})
		if err != nil {
			return respondError(c, err)
		}
		item = report.Item
	}

	return c.Status(fiber.StatusOK).JSON(item)
}

func (h *PostHandler) PublishPost(c *fiber.Ctx) error {
	id := c.Params("id")

	var pa transfer.PublishAction
	if err := c.BodyParser(&pa); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	req := publish.Request{PlatformIDs: pa.PlatformIDs}
	if pa.Date != "" || pa.Time != "" {
		at, err := resolveDateTime(pa.Date, pa.Time)
		if err != nil {
			return respondError(c, err)
		}
		req.At = &at
	}

	report, err := h.co.Publish(c.Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *PostHandler) RevertPost(c *fiber.Ctx) error {
	item, err := h.eng.RevertToDraft(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(item)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.st.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) ListDeliveries(c *fiber.Ctx) error {
	history, err := h.dh.ListByItemID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(history)
}
