package database

import (
	"gorm.io/gorm"

	classroomModel "tutorium_backend/internals/features/classroom/model"
	eventModel "tutorium_backend/internals/features/events/model"
	pointsModel "tutorium_backend/internals/features/points/model"
	requestModel "tutorium_backend/internals/features/requests/model"
	storeModel "tutorium_backend/internals/features/store/model"
	authModel "tutorium_backend/internals/features/users/auth/model"
	registrationModel "tutorium_backend/internals/features/users/registration/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

// AutoMigrate creates or updates every table the app owns. Shared between
// startup and the test harness so both run the same schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklistModel{},
		&authModel.RefreshTokenModel{},
		&registrationModel.RegistrationRequestModel{},
		&classroomModel.ClassroomModel{},
		&storeModel.StoreItemModel{},
		&requestModel.ItemRequestModel{},
		&pointsModel.PointsTransactionModel{},
		&eventModel.EventModel{},
		&eventModel.EventParticipantModel{},
	)
}
