package dto

import (
	"time"

	"github.com/google/uuid"

	pointsModel "tutorium_backend/internals/features/points/model"
)

type AdjustPointsRequest struct {
	Points int    `json:"points" validate:"gte=0"`
	Action string `json:"action" validate:"required,oneof=add subtract set"`
	Reason string `json:"reason"`
}

type TransactionResponse struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	TutorID   uuid.UUID `json:"tutor_id"`
	Points    int       `json:"points"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func ToTransactionResponse(t *pointsModel.PointsTransactionModel) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		StudentID: t.StudentID,
		TutorID:   t.TutorID,
		Points:    t.Points,
		Type:      t.Type,
		Reason:    t.Reason,
		CreatedAt: t.CreatedAt,
	}
}

// LeaderboardEntry ranks students by total AWARD points ever earned;
// the current balance is shown alongside.
type LeaderboardEntry struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FirstName         *string   `json:"first_name,omitempty"`
	LastName          *string   `json:"last_name,omitempty"`
	CurrentPoints     int       `json:"current_points"`
	TotalEarnedPoints int       `json:"total_earned_points"`
	Rank              int       `json:"rank"`
}
