package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/users/registration/controller"
	"tutorium_backend/internals/middlewares"
	authMW "tutorium_backend/internals/middlewares/auth"
)

// PublicRegistrationRoutes is mounted before the auth middleware.
func PublicRegistrationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRegistrationController(db)
	api.Post("/register", middlewares.RegisterRateLimiter(), ctrl.SubmitRegistration)
}

// AdminRegistrationRoutes handles the approval queue.
func AdminRegistrationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRegistrationController(db)

	admin := api.Group("/admin/registration-requests",
		authMW.OnlyRoles("Admin access required", constants.RoleAdmin))
	admin.Get("/", ctrl.GetRegistrations)
	admin.Put("/:id", ctrl.ProcessRegistration)
}
