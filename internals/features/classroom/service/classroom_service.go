package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	classroomModel "tutorium_backend/internals/features/classroom/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

// EnsureClassroomForTutor creates the tutor's classroom if it does not exist
// yet. Called explicitly from the create-tutor and promote-to-tutor paths.
func EnsureClassroomForTutor(db *gorm.DB, tutor *userModel.UserModel) error {
	var existing classroomModel.ClassroomModel
	err := db.Where("tutor_id = ?", tutor.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	displayName := tutor.Username
	if tutor.FirstName != nil && *tutor.FirstName != "" {
		displayName = *tutor.FirstName
	}

	return db.Create(&classroomModel.ClassroomModel{
		Name:        fmt.Sprintf("%s's Classroom", displayName),
		Description: fmt.Sprintf("%s and their students", displayName),
		TutorID:     tutor.ID,
	}).Error
}
