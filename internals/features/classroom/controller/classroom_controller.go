package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classroomModel "tutorium_backend/internals/features/classroom/model"
	userDTO "tutorium_backend/internals/features/users/user/dto"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type ClassroomController struct {
	DB *gorm.DB
}

func NewClassroomController(db *gorm.DB) *ClassroomController {
	return &ClassroomController{DB: db}
}

type classmateEntry struct {
	userDTO.UserLite
	Points int `json:"points"`
}

// GET /api/student/classroom
// The caller's tutor, their classroom, and classmates ordered by points.
func (ctrl *ClassroomController) GetStudentClassroom(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", actor.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	if student.TutorID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "You have not been assigned to a tutor yet")
	}

	var tutor userModel.UserModel
	if err := ctrl.DB.First(&tutor, "id = ?", *student.TutorID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tutor not found")
	}

	var classroom classroomModel.ClassroomModel
	if err := ctrl.DB.Where("tutor_id = ?", tutor.ID).First(&classroom).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] classroom lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	var classmates []userModel.UserModel
	if err := ctrl.DB.
		Where("tutor_id = ? AND id <> ? AND role = ?", tutor.ID, student.ID, student.Role).
		Order("points DESC, first_name ASC").
		Find(&classmates).Error; err != nil {
		log.Println("[ERROR] classmates lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	entries := make([]classmateEntry, 0, len(classmates))
	for i := range classmates {
		entries = append(entries, classmateEntry{
			UserLite: *userDTO.ToUserLite(&classmates[i]),
			Points:   classmates[i].Points,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"classroom":  classroom,
		"tutor":      userDTO.ToUserLite(&tutor),
		"classmates": entries,
	})
}

// GET /api/tutor/profile
func (ctrl *ClassroomController) GetTutorProfile(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var tutor userModel.UserModel
	if err := ctrl.DB.First(&tutor, "id = ?", actor.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Tutor not found")
	}

	var classroom classroomModel.ClassroomModel
	if err := ctrl.DB.Where("tutor_id = ?", tutor.ID).First(&classroom).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("[ERROR] classroom lookup failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	var studentCount int64
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("tutor_id = ?", tutor.ID).
		Count(&studentCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"profile":       userDTO.ToUserResponse(&tutor),
		"classroom":     classroom,
		"student_count": studentCount,
	})
}
