package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassroomModel: exactly one per tutor.
type ClassroomModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:300" json:"description"`
	TutorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tutor_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClassroomModel) TableName() string {
	return "classrooms"
}

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
