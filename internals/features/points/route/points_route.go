package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/points/controller"
	authMW "tutorium_backend/internals/middlewares/auth"
)

// PointsRoutes mounts points adjustment, ledger history, leaderboards and
// student stats under an authenticated router group.
func PointsRoutes(api fiber.Router, db *gorm.DB) {
	pointsCtrl := controller.NewPointsController(db)
	boardCtrl := controller.NewLeaderboardController(db)

	api.Post("/users/:id/points",
		authMW.OnlyRoles("Only admin or tutor can modify points", constants.RoleAdmin, constants.RoleTutor),
		pointsCtrl.AdjustPoints,
	)
	api.Get("/points/transactions", pointsCtrl.ListTransactions)

	api.Get("/leaderboard", boardCtrl.GetLeaderboard)
	api.Get("/tutor/leaderboard",
		authMW.OnlyRoles("Tutor access required", constants.RoleTutor),
		boardCtrl.GetTutorLeaderboard,
	)
	api.Get("/student/leaderboard",
		authMW.OnlyRoles("Student access required", constants.RoleStudent),
		boardCtrl.GetStudentLeaderboard,
	)
	api.Get("/student/stats",
		authMW.OnlyRoles("Student access required", constants.RoleStudent),
		boardCtrl.GetStudentStats,
	)
}
