package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	"tutorium_backend/internals/features/store/controller"
	authMW "tutorium_backend/internals/middlewares/auth"
)

func StoreRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStoreController(db)

	store := api.Group("/store")
	store.Get("/", ctrl.GetItems)
	store.Post("/",
		authMW.OnlyRoles("Only admin or tutor can create store items", constants.RoleAdmin, constants.RoleTutor),
		ctrl.CreateItem,
	)
	store.Put("/:id",
		authMW.OnlyRoles("Only admin or tutor can update store items", constants.RoleAdmin, constants.RoleTutor),
		ctrl.UpdateItem,
	)
	store.Delete("/:id",
		authMW.OnlyRoles("Only admin or tutor can delete store items", constants.RoleAdmin, constants.RoleTutor),
		ctrl.DeleteItem,
	)
}
