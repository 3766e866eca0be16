package controllers

import (
	"strconv"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/acessoclub/acessoclub/internal/pkg/session"
	"github.com/acessoclub/acessoclub/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// openSession writes the caller's identity into their session after a
// successful login (password, or one-time link).
func openSession(c *fiber.Ctx, user *models.User, isAdmin bool) error {
	if err := session.SetSessionValue(c, usercontext.KeyUserID, strconv.FormatUint(uint64(user.ID), 10)); err != nil {
		return err
	}
	if err := session.SetSessionValue(c, usercontext.KeyUsername, user.Name); err != nil {
		return err
	}
	if err := session.SetSessionValue(c, usercontext.KeyUserEmail, user.Email); err != nil {
		return err
	}
	return session.SetSessionValue(c, usercontext.KeyIsAdmin, strconv.FormatBool(isAdmin))
}

// formatTimePtr renders an optional timestamp as RFC3339 UTC, or nil.
func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func jsonError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}
