package router

import (
	"github.com/acessoclub/acessoclub/app/controllers"
	"github.com/acessoclub/acessoclub/internal/pkg/middleware"
	"github.com/acessoclub/acessoclub/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Account lifecycle
	app.Post("/auth/register", controllers.HandleAuthRegister)
	app.Post("/auth/login", controllers.HandleAuthLogin)
	app.Post("/auth/logout", controllers.HandleAuthLogout)

	// One-time login links issued after payment confirmation
	app.Get("/auth/login-link/:token", controllers.HandleLoginLinkConsume)

	// Payment provider callback, authenticated by shared webhook token
	app.Post("/webhooks/payment", controllers.HandlePaymentWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
