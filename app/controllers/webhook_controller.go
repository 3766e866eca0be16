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
	"github.com/acessoclub/acessoclub/internal/pkg/env"
	"github.com/acessoclub/acessoclub/internal/pkg/loginlink"
	"github.com/acessoclub/acessoclub/internal/pkg/mail"
	"github.com/acessoclub/acessoclub/internal/pkg/metrics/counter"
	"github.com/acessoclub/acessoclub/internal/pkg/notify"
	"github.com/acessoclub/acessoclub/internal/pkg/payment"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Webhook outcome labels for the delivery counters.
const (
	webhookOutcomeAccepted        = "accepted"
	webhookOutcomeIgnored         = "ignored"
	webhookOutcomeRejectedAuth    = "rejected_auth"
	webhookOutcomeRejectedPayload = "rejected_payload"
	webhookOutcomeNotFound        = "not_found"
	webhookOutcomeFailed          = "failed"
)

// HandlePaymentWebhook consumes payment-gateway deliveries. The gateway
// retries at least once and without ordering guarantees, so every branch
// here must stay safe under arbitrary redelivery: promotion writes absolute
// flag values, and the side-effect steps after it re-run harmlessly.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	token := c.Get("X-Webhook-Token")
	secret := env.GetEnv("WEBHOOK_TOKEN", "")

	db := database.GetDB()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tokenValid := payment.VerifyWebhookToken(token, secret)
	eventID := payment.EventID(c.Get("X-Webhook-Delivery"), rawBody)

	stored, err := recordWebhookEvent(db, eventID, rawBody, tokenValid)
	if err != nil {
		log.Printf("webhook: failed to persist event %s: %v", eventID, err)
		trackWebhookOutcome(webhookOutcomeFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}

	if !tokenValid {
		// No detail leaked to the caller; the audit row keeps the payload.
		log.Printf("webhook: rejected delivery %s with invalid token", eventID)
		markWebhookProcessed(db, stored.ID, errors.New("invalid webhook token"))
		trackWebhookOutcome(webhookOutcomeRejectedAuth)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	event, err := payment.ParseEvent(rawBody)
	if err != nil {
		markWebhookProcessed(db, stored.ID, err)
		trackWebhookOutcome(webhookOutcomeRejectedPayload)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	setWebhookEventType(db, stored.ID, event.Type)

	if !payment.IsActionableEvent(event.Type) {
		// Acknowledged so the gateway stops retrying an event we will never act on.
		markWebhookProcessed(db, stored.ID, nil)
		trackWebhookOutcome(webhookOutcomeIgnored)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	if event.CustomerEmail == "" {
		markWebhookProcessed(db, stored.ID, errors.New("payload missing customer email"))
		trackWebhookOutcome(webhookOutcomeRejectedPayload)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_customer_email"})
	}

	svc := entitlement.NewServiceFromDB(db)
	user, err := svc.PromotePaid(ctx, event.CustomerEmail, time.Now())
	if err != nil {
		if errors.Is(err, entitlement.ErrUserNotFound) {
			// Data-quality problem: the payer email has no account yet. The
			// gateway redelivery will succeed once the account exists.
			log.Printf("webhook: no account for payer email %q (event %s)", event.CustomerEmail, eventID)
			markWebhookProcessed(db, stored.ID, err)
			trackWebhookOutcome(webhookOutcomeNotFound)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account_not_found"})
		}
		markWebhookProcessed(db, stored.ID, err)
		trackWebhookOutcome(webhookOutcomeFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "promotion_failed"})
	}

	// The account is now paid-entitled. Failures from here on are surfaced
	// as 500 so the gateway redelivers: a paid account with no delivered
	// access path must alert, not vanish in a log line.
	issuer := loginlink.NewRedisIssuerFromEnv()
	loginURL, err := issuer.Issue(ctx, user.Email)
	if err != nil {
		log.Printf("webhook: login link issuance failed for user %d: %v", user.ID, err)
		markWebhookProcessed(db, stored.ID, err)
		trackWebhookOutcome(webhookOutcomeFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login_link_failed"})
	}

	if err := mail.SendPaymentConfirmation(user.Email, loginURL); err != nil {
		log.Printf("webhook: confirmation mail failed for user %d: %v", user.ID, err)
		markWebhookProcessed(db, stored.ID, err)
		trackWebhookOutcome(webhookOutcomeFailed)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "confirmation_mail_failed"})
	}

	go notify.Fanout(
		db,
		models.NOTIFICATION_TYPE_PAYMENT,
		"Pagamento confirmado",
		fmt.Sprintf("Pagamento confirmado para %s (%s).", user.Name, user.Email),
		user.ID,
	)

	markWebhookProcessed(db, stored.ID, nil)
	trackWebhookOutcome(webhookOutcomeAccepted)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// recordWebhookEvent appends the delivery to the audit ledger. The ledger is
// audit-only: processing never short-circuits on a previously seen event id,
// idempotency comes from the absolute-value promotion write.
func recordWebhookEvent(db *gorm.DB, eventID string, payload []byte, tokenValid bool) (*models.PaymentWebhookEvent, error) {
	event := &models.PaymentWebhookEvent{
		EventID:     eventID,
		PayloadJSON: string(payload),
		TokenValid:  tokenValid,
	}
	if err := db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func setWebhookEventType(db *gorm.DB, id uint, eventType string) {
	if err := db.Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Update("event_type", eventType).Error; err != nil {
		log.Printf("webhook: failed to set event type for ledger row %d: %v", id, err)
	}
}

func markWebhookProcessed(db *gorm.DB, id uint, processingErr error) {
	now := time.Now()
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	if err := db.Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": errMsg,
		}).Error; err != nil {
		log.Printf("webhook: failed to mark ledger row %d processed: %v", id, err)
	}
}

func trackWebhookOutcome(outcome string) {
	if err := counter.AddWebhookOutcome(outcome); err != nil {
		log.Printf("webhook: outcome counter update failed: %v", err)
	}
}
