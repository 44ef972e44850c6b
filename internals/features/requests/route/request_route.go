package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/requests/controller"
	authMW "tutorium_backend/internals/middlewares/auth"
)

func RequestRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRequestController(db)

	requests := api.Group("/requests")
	requests.Post("/",
		authMW.OnlyRoles("Only students can submit redemption requests", constants.RoleStudent),
		ctrl.SubmitRequest,
	)
	requests.Get("/", ctrl.GetRequests)
	requests.Get("/:id", ctrl.GetRequest)
	requests.Put("/:id",
		authMW.OnlyRoles("Only admin or tutor can process requests", constants.RoleAdmin, constants.RoleTutor),
		ctrl.ProcessRequest,
	)
}
