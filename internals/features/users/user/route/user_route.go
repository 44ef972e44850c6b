package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/users/user/controller"
	authMW "tutorium_backend/internals/middlewares/auth"
)

func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	adminOnly := authMW.OnlyRoles("Admin access required", constants.RoleAdmin)
	tutorOnly := authMW.OnlyRoles("Tutor access required", constants.RoleTutor)

	users := api.Group("/users")
	users.Get("/", adminOnly, ctrl.GetUsers)
	users.Put("/role", adminOnly, ctrl.UpdateRole)
	users.Get("/:id", ctrl.GetUser)
	users.Put("/:id", adminOnly, ctrl.UpdateUser)
	users.Delete("/:id", adminOnly, ctrl.DeleteUser)
	users.Put("/:id/password", adminOnly, ctrl.ResetPassword)

	// Admin creates accounts directly; self-service signup goes through
	// the registration request flow instead.
	api.Post("/auth/register", adminOnly, ctrl.CreateUser)

	api.Get("/tutor/students", tutorOnly, ctrl.GetTutorStudents)
	api.Post("/tutor/students", tutorOnly, ctrl.CreateTutorStudent)
}
