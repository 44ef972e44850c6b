package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classroomController "tutorium_backend/internals/features/classroom/controller"
	"tutorium_backend/internals/constants"
	authMW "tutorium_backend/internals/middlewares/auth"
)

func ClassroomRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := classroomController.NewClassroomController(db)

	router.Get("/student/classroom",
		authMW.OnlyRoles("Only students can access the classroom view", constants.RoleStudent),
		ctrl.GetStudentClassroom)

	router.Get("/tutor/profile",
		authMW.OnlyRoles("Only tutors can access the tutor profile", constants.RoleTutor),
		ctrl.GetTutorProfile)
}
