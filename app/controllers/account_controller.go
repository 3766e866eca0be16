package controllers

import (
	"errors"
	"log"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/acessoclub/acessoclub/app/repository"
	"github.com/acessoclub/acessoclub/internal/pkg/database"
	"github.com/acessoclub/acessoclub/internal/pkg/session"
	"github.com/acessoclub/acessoclub/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DeleteConfirmationPhrase must be typed exactly, including case and
// spacing, before an account is destroyed.
const DeleteConfirmationPhrase = "EXCLUIR MINHA CONTA"

// HandleAccountDelete performs guarded self-service account deletion.
// Operators are categorically excluded from this path so the last
// administrator cannot delete itself by accident; the confirmation phrase
// is compared verbatim, no trimming or case folding.
func HandleAccountDelete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	db := database.GetDB()
	isAdmin, err := models.HasRole(db, userCtx.UserID, models.ROLE_ADMIN)
	if err != nil {
		log.Printf("account delete: role lookup failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error",
			"Não foi possível excluir a conta agora. Tente novamente mais tarde.")
	}
	if isAdmin {
		return jsonError(c, fiber.StatusForbidden, "forbidden",
			"Contas de administrador não podem ser excluídas por aqui. Utilize o painel administrativo.")
	}

	var body struct {
		ConfirmationPhrase string `json:"confirmationPhrase"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation", "invalid request body")
	}

	if body.ConfirmationPhrase != DeleteConfirmationPhrase {
		return jsonError(c, fiber.StatusBadRequest, "validation",
			"Digite exatamente \""+DeleteConfirmationPhrase+"\" para confirmar a exclusão.")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Delete(userCtx.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Session points at an account that no longer exists.
			_ = session.DestroySession(c)
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
		}
		log.Printf("account delete failed for user %d: %v", userCtx.UserID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error",
			"Não foi possível excluir a conta agora. Tente novamente mais tarde.")
	}

	if err := session.DestroySession(c); err != nil {
		log.Printf("account delete: session destroy failed for user %d: %v", userCtx.UserID, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
