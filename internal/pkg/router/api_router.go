package router

import (
	"github.com/acessoclub/acessoclub/app/controllers"
	"github.com/acessoclub/acessoclub/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "AcessoClub API",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1", middleware.RequireAPISessionAuth)
	v1.Post("/trial/activate", controllers.HandleTrialActivate)
	v1.Post("/account/delete", controllers.HandleAccountDelete)

	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Get("/stats", controllers.HandleAdminStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
