package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postcue/postcue/internal/service"
)

type MediaHandler struct {
	ms service.MediaService
}

func NewMediaHandler(ms service.MediaService) *MediaHandler {
	return &MediaHandler{ms: ms}
}

// UploadMedia stores uploaded files and returns their refs, in upload
// order, for inclusion in a content item.
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}

	refs, err := h.ms.Upload(c.Context(), files)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"media_refs": refs,
	})
}
