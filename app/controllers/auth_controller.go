package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/acessoclub/acessoclub/app/models"
	"github.com/acessoclub/acessoclub/app/repository"
	"github.com/acessoclub/acessoclub/internal/pkg/database"
	"github.com/acessoclub/acessoclub/internal/pkg/hcaptcha"
	"github.com/acessoclub/acessoclub/internal/pkg/loginlink"
	"github.com/acessoclub/acessoclub/internal/pkg/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleAuthRegister creates a new account. The user row and its empty
// entitlement record land in one transaction.
func HandleAuthRegister(c *fiber.Ctx) error {
	var body struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		HCaptchaToken string `json:"hcaptchaToken"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation", "invalid request body")
	}

	if hcaptcha.Enabled() {
		valid, err := hcaptcha.Verify(body.HCaptchaToken)
		if err != nil || !valid {
			if err != nil {
				log.Printf("hCaptcha validation error: %v", err)
			}
			return jsonError(c, fiber.StatusBadRequest, "validation", "Falha na validação do captcha. Tente novamente.")
		}
	}

	user, err := models.CreateUser(body.Name, body.Email, body.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation", fmt.Sprintf("something went wrong: %s", err))
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.CreateWithEntitlement(user); err != nil {
		if existing, lookupErr := repo.GetByEmail(user.Email); lookupErr == nil && existing != nil {
			return jsonError(c, fiber.StatusConflict, "conflict", "Este e-mail já está cadastrado.")
		}
		log.Printf("register failed for %s: %v", user.Email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

// HandleAuthLogin authenticates with email and password and opens a session.
func HandleAuthLogin(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation", "invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(body.Email)
	if err != nil || !user.CheckPassword(body.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "E-mail ou senha inválidos.")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Esta conta está desativada.")
	}

	isAdmin, err := finishLogin(c, repo, user)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "login failed")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"user_id":  user.ID,
		"is_admin": isAdmin,
	})
}

// HandleAuthLogout drops the caller's session.
func HandleAuthLogout(c *fiber.Ctx) error {
	if err := session.DestroySession(c); err != nil {
		log.Printf("logout: session destroy failed: %v", err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandleLoginLinkConsume redeems a single-use post-payment login link and
// opens a session for the bound account. The token resolves exactly once;
// a reused or expired link gets a 401.
func HandleLoginLinkConsume(c *fiber.Ctx) error {
	token := c.Params("token")

	issuer := loginlink.NewRedisIssuerFromEnv()
	email, err := issuer.Consume(c.Context(), token)
	if err != nil {
		if errors.Is(err, loginlink.ErrTokenNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Link de acesso inválido ou expirado.")
		}
		log.Printf("login link consume failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "login failed")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Link de acesso inválido ou expirado.")
		}
		log.Printf("login link: user lookup failed for %s: %v", email, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "login failed")
	}

	if _, err := finishLogin(c, repo, user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "login failed")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// finishLogin opens the session and stamps the last login. It writes no
// response; callers decide between JSON and redirect.
func finishLogin(c *fiber.Ctx, repo repository.UserRepository, user *models.User) (bool, error) {
	isAdmin, err := models.HasRole(database.GetDB(), user.ID, models.ROLE_ADMIN)
	if err != nil {
		log.Printf("login: role lookup failed for user %d: %v", user.ID, err)
		isAdmin = false
	}

	if err := openSession(c, user, isAdmin); err != nil {
		log.Printf("login: session open failed for user %d: %v", user.ID, err)
		return false, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		log.Printf("login: failed to update last login for user %d: %v", user.ID, err)
	}

	return isAdmin, nil
}
