package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreItemModel is a reward a tutor offers to their students. Name is unique
// per tutor so two tutors can both sell a "Sticker".
type StoreItemModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID           uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_store_items_tutor_name" json:"tutor_id"`
	Name              string     `gorm:"size:100;not null;uniqueIndex:idx_store_items_tutor_name" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	PointsRequired    int        `gorm:"not null" json:"points_required"`
	AvailableQuantity int        `gorm:"not null;default:0" json:"available_quantity"`
	ImageURL          *string    `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (StoreItemModel) TableName() string {
	return "store_items"
}

func (m *StoreItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
