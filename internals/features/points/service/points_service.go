package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pointsModel "tutorium_backend/internals/features/points/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

const (
	ActionAdd      = "add"
	ActionSubtract = "subtract"
	ActionSet      = "set"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAction       = errors.New("action must be one of: add, subtract, set")
	ErrNegativePoints      = errors.New("points must be a non-negative number")
	ErrInsufficientBalance = errors.New("insufficient points balance")
)

// ApplyDelta appends a ledger row for delta (positive = AWARD, negative =
// REDEEM) and recomputes the student's cached balance from the ledger, all in
// the caller's transaction. The ledger is the source of truth; the users.points
// column is only ever written here. Fails with ErrInsufficientBalance if the
// recomputed balance would be negative, which also catches concurrent writers
// that slipped past the caller's precondition read.
func ApplyDelta(tx *gorm.DB, studentID, tutorID uuid.UUID, delta int, reason string) error {
	if delta == 0 {
		return nil
	}

	entry := pointsModel.PointsTransactionModel{
		StudentID: studentID,
		TutorID:   tutorID,
		Points:    delta,
		Type:      pointsModel.TransactionAward,
		Reason:    reason,
	}
	if delta < 0 {
		entry.Points = -delta
		entry.Type = pointsModel.TransactionRedeem
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	balance, err := RecomputeBalance(tx, studentID)
	if err != nil {
		return err
	}
	if balance < 0 {
		return ErrInsufficientBalance
	}

	res := tx.Model(&userModel.UserModel{}).
		Where("id = ?", studentID).
		Update("points", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RecomputeBalance derives the balance from the ledger: sum of AWARD minus REDEEM.
func RecomputeBalance(tx *gorm.DB, studentID uuid.UUID) (int, error) {
	var balance int
	err := tx.Model(&pointsModel.PointsTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN points ELSE -points END), 0)",
			pointsModel.TransactionAward).
		Where("student_id = ?", studentID).
		Scan(&balance).Error
	return balance, err
}

// AdjustPoints applies an add/subtract/set action from actor to the target
// student atomically: one ledger row sized to the delta plus the balance
// recompute, or nothing. subtract floors at zero rather than failing.
func AdjustPoints(db *gorm.DB, actorID, targetID uuid.UUID, points int, action, reason string) (*userModel.UserModel, error) {
	if points < 0 {
		return nil, ErrNegativePoints
	}
	if action != ActionAdd && action != ActionSubtract && action != ActionSet {
		return nil, ErrInvalidAction
	}

	var updated userModel.UserModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var target userModel.UserModel
		if err := tx.First(&target, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		newPoints := target.Points
		switch action {
		case ActionAdd:
			newPoints += points
		case ActionSubtract:
			newPoints -= points
			if newPoints < 0 {
				newPoints = 0
			}
		case ActionSet:
			newPoints = points
		}

		reasonText := reason
		if reasonText == "" {
			reasonText = fmt.Sprintf("Points %s adjustment", action)
		}
		if err := ApplyDelta(tx, target.ID, actorID, newPoints-target.Points, reasonText); err != nil {
			return err
		}

		return tx.First(&updated, "id = ?", target.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
