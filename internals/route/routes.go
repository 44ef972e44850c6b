package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classroomRoutes "tutorium_backend/internals/features/classroom/route"
	eventRoutes "tutorium_backend/internals/features/events/route"
	pointsRoutes "tutorium_backend/internals/features/points/route"
	requestRoutes "tutorium_backend/internals/features/requests/route"
	storeRoutes "tutorium_backend/internals/features/store/route"
	authRoutes "tutorium_backend/internals/features/users/auth/route"
	registrationRoutes "tutorium_backend/internals/features/users/registration/route"
	userRoutes "tutorium_backend/internals/features/users/user/route"
	authMW "tutorium_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the public surface first, then everything that sits
// behind the access token.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	authRoutes.AuthRoutes(api, db)
	registrationRoutes.PublicRegistrationRoutes(api, db)

	protected := app.Group("/api", authMW.AuthMiddleware(db))
	registrationRoutes.AdminRegistrationRoutes(protected, db)
	userRoutes.UserRoutes(protected, db)
	classroomRoutes.ClassroomRoutes(protected, db)
	pointsRoutes.PointsRoutes(protected, db)
	storeRoutes.StoreRoutes(protected, db)
	requestRoutes.RequestRoutes(protected, db)
	eventRoutes.EventRoutes(protected, db)
}
