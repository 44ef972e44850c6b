package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	storeModel "tutorium_backend/internals/features/store/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// ItemRequestModel is a student's redemption request. TutorID is copied from
// the student at submission time and PointsSpent snapshots the item's price,
// so later reassignments or price edits never change what an approval costs.
type ItemRequestModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TutorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Status      string    `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	Note        string    `gorm:"type:text" json:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Student *userModel.UserModel       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Item    *storeModel.StoreItemModel `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (ItemRequestModel) TableName() string {
	return "item_requests"
}

func (m *ItemRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *ItemRequestModel) IsPending() bool {
	return m.Status == RequestPending
}
