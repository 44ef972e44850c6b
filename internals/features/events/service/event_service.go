package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	eventModel "tutorium_backend/internals/features/events/model"
	pointsService "tutorium_backend/internals/features/points/service"
	helper "tutorium_backend/internals/helpers"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotJoinable = errors.New("event is not open for registration")
	ErrAlreadyJoined    = errors.New("already joined this event")
	ErrEventFull        = errors.New("event is at capacity")
	ErrNotParticipant   = errors.New("participant not found")
	ErrAttendanceFinal  = errors.New("attendance has already been recorded")
)

// Join registers userID for the event. The unique (event, user) index rejects
// a double join; capacity is re-counted after the insert inside the same
// transaction and the insert is rolled back on overrun, so two racing joins
// for the last seat cannot both land.
func Join(db *gorm.DB, eventID, userID uuid.UUID) (*eventModel.EventParticipantModel, int64, error) {
	var participant eventModel.EventParticipantModel
	var enrolled int64

	err := db.Transaction(func(tx *gorm.DB) error {
		var event eventModel.EventModel
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if event.Status != eventModel.StatusUpcoming {
			return ErrEventNotJoinable
		}

		participant = eventModel.EventParticipantModel{
			EventID: eventID,
			UserID:  userID,
			Status:  eventModel.ParticipantRegistered,
		}
		if err := tx.Create(&participant).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrAlreadyJoined
			}
			return err
		}

		if err := tx.Model(&eventModel.EventParticipantModel{}).
			Where("event_id = ? AND status = ?", eventID, eventModel.ParticipantRegistered).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if event.Capacity > 0 && enrolled > int64(event.Capacity) {
			return ErrEventFull
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &participant, enrolled, nil
}

// SetParticipantStatus updates a participant's attendance. ATTENDED and
// ABSENT are terminal: once recorded the status cannot change, so an
// attendance award can never be paid twice. Flipping to ATTENDED on an event
// that carries points awards them through the ledger in the same transaction.
func SetParticipantStatus(db *gorm.DB, eventID, userID uuid.UUID, status string) (*eventModel.EventParticipantModel, error) {
	if !eventModel.IsValidParticipantStatus(status) {
		return nil, fmt.Errorf("invalid participant status %q", status)
	}

	var updated eventModel.EventParticipantModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var event eventModel.EventModel
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var participant eventModel.EventParticipantModel
		if err := tx.First(&participant, "event_id = ? AND user_id = ?", eventID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotParticipant
			}
			return err
		}

		if participant.Status != eventModel.ParticipantRegistered {
			if status == participant.Status {
				return tx.Preload("User").First(&updated, "id = ?", participant.ID).Error
			}
			return ErrAttendanceFinal
		}

		if status == eventModel.ParticipantAttended && event.Points > 0 {
			reason := fmt.Sprintf("Attended event: %s", event.Title)
			if err := pointsService.ApplyDelta(tx, userID, event.CreatedByID, event.Points, reason); err != nil {
				return err
			}
		}

		if err := tx.Model(&participant).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(&updated, "id = ?", participant.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
