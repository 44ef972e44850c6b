package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/events/controller"
	authMW "tutorium_backend/internals/middlewares/auth"
)

func EventRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEventController(db)

	events := api.Group("/events")
	events.Get("/", ctrl.GetEvents)
	events.Post("/",
		authMW.OnlyRoles("Only admin or tutor can create events", constants.RoleAdmin, constants.RoleTutor),
		ctrl.CreateEvent,
	)
	events.Get("/:id", ctrl.GetEvent)
	events.Put("/:id",
		authMW.OnlyRoles("Only admin or tutor can update events", constants.RoleAdmin, constants.RoleTutor),
		ctrl.UpdateEvent,
	)
	events.Delete("/:id",
		authMW.OnlyRoles("Only admin or tutor can delete events", constants.RoleAdmin, constants.RoleTutor),
		ctrl.DeleteEvent,
	)

	events.Post("/:id/join",
		authMW.OnlyRoles("Only students can join events", constants.RoleStudent),
		ctrl.JoinEvent,
	)

	events.Get("/:id/participants", ctrl.GetParticipants)
	events.Post("/:id/participants",
		authMW.OnlyRoles("Only admin or tutor can manage participants", constants.RoleAdmin, constants.RoleTutor),
		ctrl.AddParticipant,
	)
	events.Patch("/:id/participants/:userId",
		authMW.OnlyRoles("Only admin or tutor can manage participants", constants.RoleAdmin, constants.RoleTutor),
		ctrl.UpdateParticipant,
	)
	events.Delete("/:id/participants/:userId",
		authMW.OnlyRoles("Only admin or tutor can manage participants", constants.RoleAdmin, constants.RoleTutor),
		ctrl.RemoveParticipant,
	)
}
