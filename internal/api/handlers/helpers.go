package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/internal/schedule"
)

// csvQuery splits a comma separated query value into its non-empty parts.
func csvQuery(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var vals []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}

// resolveDateTime parses the separately edited date ("2006-01-02") and time
// ("15:04") fields and resolves them into one instant. Absent fields stay
// zero so the resolver reports which part is missing.
func resolveDateTime(date, clock string) (time.Time, error) {
	var datePart, timePart time.Time
	var err error

	if date != "" {
		datePart, err = time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, &models.ValidationError{Field: "scheduledAt"}
		}
	}
	if clock != "" {
		timePart, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, &models.ValidationError{Field: "scheduledAt"}
		}
	}

	return schedule.Resolve(datePart, timePart)
}

// respondError maps domain errors onto HTTP statuses. Validation problems
// carry the failing field name back to the user.
func respondError(c *fiber.Ctx, err error) error {
	var nf *models.NotFoundError
	var ts *models.TerminalStateError
	var ve *models.ValidationError
	var it *schedule.IncompleteTimeError

	switch {
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ts):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &ve), errors.As(err, &it):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
