package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lingohub_backend/internal/pkg/metrics/counter"
)

// upgradeSuccesses is a seam for tests; the counters live in Redis.
var upgradeSuccesses = counter.UpgradeSuccesses

// HandleUpgradeStats returns the per-tier upgrade success counters.
func HandleUpgradeStats(c *fiber.Ctx) error {
	totals, err := upgradeSuccesses()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": internalErrorMessage(err, "Failed to load upgrade stats")})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"upgrades": totals})
}
