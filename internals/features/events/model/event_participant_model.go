package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "tutorium_backend/internals/features/users/user/model"
)

const (
	ParticipantRegistered = "REGISTERED"
	ParticipantAttended   = "ATTENDED"
	ParticipantAbsent     = "ABSENT"
)

// EventParticipantModel links a user to an event. The (event, user) unique
// index is what makes double-joins impossible no matter how requests race.
type EventParticipantModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_participants_event_user" json:"event_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_participants_event_user;index" json:"user_id"`
	Status    string    `gorm:"size:20;not null;default:REGISTERED" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventParticipantModel) TableName() string {
	return "event_participants"
}

func (m *EventParticipantModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func IsValidParticipantStatus(s string) bool {
	switch s {
	case ParticipantRegistered, ParticipantAttended, ParticipantAbsent:
		return true
	}
	return false
}
