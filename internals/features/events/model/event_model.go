package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	userModel "tutorium_backend/internals/features/users/user/model"
)

const (
	ScopeGlobal = "GLOBAL"
	ScopeGroup  = "GROUP"

	StatusUpcoming  = "UPCOMING"
	StatusOngoing   = "ONGOING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"

	TypeInPerson = "IN_PERSON"
	TypeOnline   = "ONLINE"
)

// EventModel is a scheduled activity. GLOBAL events are platform-wide and
// admin-managed; GROUP events belong to the tutor who created them. Points is
// what an ATTENDED participant is awarded.
type EventModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:150;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Scope       string         `gorm:"size:20;not null;default:GROUP;index" json:"scope"`
	Status      string         `gorm:"size:20;not null;default:UPCOMING;index" json:"status"`
	Type        string         `gorm:"size:20;not null;default:IN_PERSON" json:"type"`
	Location    string         `gorm:"size:255" json:"location"`
	StartTime   time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time     `json:"end_time,omitempty"`
	Capacity    int            `gorm:"not null;default:0" json:"capacity"`
	Points      int            `gorm:"not null;default:0" json:"points"`
	Tags        datatypes.JSON `gorm:"type:jsonb" json:"tags,omitempty"`
	CreatedByID uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	CreatedBy *userModel.UserModel `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func IsValidScope(s string) bool {
	return s == ScopeGlobal || s == ScopeGroup
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func IsValidType(s string) bool {
	return s == TypeInPerson || s == TypeOnline
}
