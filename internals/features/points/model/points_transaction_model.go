package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionAward  = "AWARD"
	TransactionRedeem = "REDEEM"
)

// PointsTransactionModel is the append-only points ledger. Rows are never
// updated or deleted; the cached balance on users is recomputed from here.
type PointsTransactionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	Points    int       `gorm:"not null" json:"points"` // always positive; Type carries the sign
	Type      string    `gorm:"type:varchar(10);not null" json:"type"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PointsTransactionModel) TableName() string {
	return "points_transactions"
}

func (m *PointsTransactionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
