package controllers

import (
	"log"

	"github.com/acessoclub/acessoclub/app/repository"
	"github.com/acessoclub/acessoclub/internal/pkg/metrics/counter"
	"github.com/gofiber/fiber/v2"
)

// HandleAdminStats returns entitlement totals plus webhook delivery counters
// for the operator dashboard.
func HandleAdminStats(c *fiber.Ctx) error {
	totals, err := repository.GetGlobalFactory().GetStatsRepository().EntitlementTotals()
	if err != nil {
		log.Printf("admin stats: totals query failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "stats unavailable")
	}

	// Counter read is best-effort; an empty map beats a failed dashboard.
	outcomes, err := counter.WebhookOutcomes()
	if err != nil {
		log.Printf("admin stats: webhook counters unavailable: %v", err)
		outcomes = map[string]int64{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"entitlements":     totals,
		"webhook_outcomes": outcomes,
	})
}
