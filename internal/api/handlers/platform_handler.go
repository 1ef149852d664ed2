package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postcue/postcue/internal/repository"
)

type PlatformHandler struct {
	pr repository.PlatformRepository
}

func NewPlatformHandler(pr repository.PlatformRepository) *PlatformHandler {
	return &PlatformHandler{pr: pr}
}

func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	platforms, err := h.pr.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(platforms)
}
