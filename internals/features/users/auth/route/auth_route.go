package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/features/users/auth/controller"
	"tutorium_backend/internals/middlewares"
	authMW "tutorium_backend/internals/middlewares/auth"
)

// AuthRoutes splits the public session endpoints from the ones that need a
// live access token.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/refresh", ctrl.RefreshToken)

	protected := auth.Group("", authMW.AuthMiddleware(db))
	protected.Get("/me", ctrl.Me)
	protected.Post("/logout", ctrl.Logout)
	protected.Put("/password", ctrl.ChangePassword)
}
