package middleware

import (
	"log"
	"strconv"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/acessoclub/acessoclub/internal/pkg/database"
	"github.com/acessoclub/acessoclub/internal/pkg/session"
	"github.com/acessoclub/acessoclub/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware resolves the caller's session into a UserContext for
// every request. Anonymous callers get a zero context, never an error.
func UserContextMiddleware(c *fiber.Ctx) error {
	userIDRaw := session.GetSessionValue(c, usercontext.KeyUserID)
	if userIDRaw == "" {
		return anonymous(c)
	}

	userID64, err := strconv.ParseUint(userIDRaw, 10, 64)
	if err != nil || userID64 == 0 {
		return anonymous(c)
	}
	userID := uint(userID64)

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	email := session.GetSessionValue(c, usercontext.KeyUserEmail)

	// Privilege is a capability lookup against the role relation, cached in
	// the session after the first hit.
	isAdmin := false
	switch session.GetSessionValue(c, usercontext.KeyIsAdmin) {
	case "true":
		isAdmin = true
	case "false":
		isAdmin = false
	default:
		if db := database.GetDB(); db != nil {
			has, err := models.HasRole(db, userID, models.ROLE_ADMIN)
			if err != nil {
				log.Printf("role lookup failed for user %d: %v", userID, err)
			} else {
				isAdmin = has
				_ = session.SetSessionValue(c, usercontext.KeyIsAdmin, strconv.FormatBool(has))
			}
		}
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		Email:      email,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}

func anonymous(c *fiber.Ctx) error {
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	return c.Next()
}
