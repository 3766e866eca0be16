package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/acessoclub/acessoclub/internal/pkg/database"
	"github.com/acessoclub/acessoclub/internal/pkg/entitlement"
	"github.com/acessoclub/acessoclub/internal/pkg/notify"
	"github.com/acessoclub/acessoclub/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// HandleTrialActivate grants the caller's first-and-only trial. Denials are
// 200 responses with granted=false and a stable reason the client UI can
// branch on; only missing identity and store failures are errors.
func HandleTrialActivate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	svc := entitlement.NewServiceFromDB(database.GetDB())
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	decision, err := svc.ActivateTrial(ctx, userCtx.UserID, time.Now())
	if err != nil {
		if errors.Is(err, entitlement.ErrUserNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
		}
		log.Printf("trial activation failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "trial activation failed")
	}

	if !decision.Granted {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"granted": false,
			"reason":  decision.Reason,
		})
	}

	go notify.Fanout(
		database.GetDB(),
		models.NOTIFICATION_TYPE_ENTITLEMENT,
		"Novo período de teste",
		fmt.Sprintf("Usuário %s (%s) ativou o período de teste.", userCtx.Username, userCtx.Email),
		userCtx.UserID,
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"granted":   true,
		"expiresAt": formatTimePtr(decision.ExpiresAt),
	})
}
