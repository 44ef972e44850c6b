package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RegistrationPending  = "PENDING"
	RegistrationApproved = "APPROVED"
	RegistrationRejected = "REJECTED"
)

// RegistrationRequestModel holds a public signup until an admin resolves it.
// The password is hashed at submission so plaintext never rests in the table.
type RegistrationRequestModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string     `gorm:"size:50;not null;index" json:"username"`
	Email           string     `gorm:"size:255;not null;index" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	FirstName       *string    `gorm:"size:100" json:"first_name,omitempty"`
	LastName        *string    `gorm:"size:100" json:"last_name,omitempty"`
	RequestedRole   string     `gorm:"size:20;not null;default:STUDENT" json:"requested_role"`
	Status          string     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	ProcessedByID   *uuid.UUID `gorm:"type:uuid" json:"processed_by_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (RegistrationRequestModel) TableName() string {
	return "registration_requests"
}

func (m *RegistrationRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
