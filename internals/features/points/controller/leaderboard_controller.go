package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	eventModel "tutorium_backend/internals/features/events/model"
	"tutorium_backend/internals/features/points/dto"
	pointsModel "tutorium_backend/internals/features/points/model"
	requestModel "tutorium_backend/internals/features/requests/model"
	userModel "tutorium_backend/internals/features/users/user/model"
	helper "tutorium_backend/internals/helpers"
	authMW "tutorium_backend/internals/middlewares/auth"
)

type LeaderboardController struct {
	DB *gorm.DB
}

func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{DB: db}
}

const leaderboardSize = 25

// rankStudents orders students by lifetime AWARD points. scope narrows the
// user set (nil means all students).
func (ctrl *LeaderboardController) rankStudents(scope func(*gorm.DB) *gorm.DB) ([]dto.LeaderboardEntry, error) {
	q := ctrl.DB.Model(&userModel.UserModel{}).
		Select(`users.id, users.username, users.first_name, users.last_name,
			users.points AS current_points,
			COALESCE(SUM(CASE WHEN points_transactions.type = ? THEN points_transactions.points ELSE 0 END), 0) AS total_earned_points`,
			pointsModel.TransactionAward).
		Joins("LEFT JOIN points_transactions ON points_transactions.student_id = users.id").
		Where("users.role = ?", constants.RoleStudent).
		Group("users.id, users.username, users.first_name, users.last_name, users.points").
		Order("total_earned_points DESC, users.username ASC")
	if scope != nil {
		q = scope(q)
	}

	var entries []dto.LeaderboardEntry
	if err := q.Scan(&entries).Error; err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func findRank(entries []dto.LeaderboardEntry, id uuid.UUID) int {
	for _, e := range entries {
		if e.ID == id {
			return e.Rank
		}
	}
	return 0
}

// GET /api/leaderboard — top students across the platform plus the caller's rank.
func (ctrl *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	entries, err := ctrl.rankStudents(nil)
	if err != nil {
		log.Printf("[ERROR] build leaderboard: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load leaderboard")
	}

	top := entries
	if len(top) > leaderboardSize {
		top = top[:leaderboardSize]
	}

	return c.JSON(fiber.Map{
		"leaderboard": top,
		"user_rank":   findRank(entries, actor.ID),
	})
}

// GET /api/tutor/leaderboard — the tutor's own students.
func (ctrl *LeaderboardController) GetTutorLeaderboard(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	entries, err := ctrl.rankStudents(func(q *gorm.DB) *gorm.DB {
		return q.Where("users.tutor_id = ?", actor.ID)
	})
	if err != nil {
		log.Printf("[ERROR] build tutor leaderboard: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load leaderboard")
	}

	return c.JSON(fiber.Map{"leaderboard": entries})
}

// GET /api/student/leaderboard — the caller's classmates (same tutor).
func (ctrl *LeaderboardController) GetStudentLeaderboard(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if actor.TutorID == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "You have not been assigned to a tutor yet")
	}

	entries, err := ctrl.rankStudents(func(q *gorm.DB) *gorm.DB {
		return q.Where("users.tutor_id = ?", *actor.TutorID)
	})
	if err != nil {
		log.Printf("[ERROR] build student leaderboard: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load leaderboard")
	}

	return c.JSON(fiber.Map{
		"leaderboard": entries,
		"user_rank":   findRank(entries, actor.ID),
	})
}

// GET /api/student/stats — the caller's activity summary.
func (ctrl *LeaderboardController) GetStudentStats(c *fiber.Ctx) error {
	actor, err := authMW.ActorFromCtx(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", actor.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}

	var attendedEvents int64
	if err := ctrl.DB.Model(&eventModel.EventParticipantModel{}).
		Where("user_id = ? AND status = ?", actor.ID, eventModel.ParticipantAttended).
		Count(&attendedEvents).Error; err != nil {
		log.Printf("[ERROR] count attended events: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load stats")
	}

	var approvedRequests int64
	if err := ctrl.DB.Model(&requestModel.ItemRequestModel{}).
		Where("student_id = ? AND status = ?", actor.ID, requestModel.RequestApproved).
		Count(&approvedRequests).Error; err != nil {
		log.Printf("[ERROR] count approved requests: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load stats")
	}

	var earned int
	if err := ctrl.DB.Model(&pointsModel.PointsTransactionModel{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student_id = ? AND type = ?", actor.ID, pointsModel.TransactionAward).
		Scan(&earned).Error; err != nil {
		log.Printf("[ERROR] sum earned points: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load stats")
	}

	return c.JSON(fiber.Map{
		"points":            student.Points,
		"total_earned":      earned,
		"attended_events":   attendedEvents,
		"approved_requests": approvedRequests,
	})
}
