package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pointsService "tutorium_backend/internals/features/points/service"
	requestModel "tutorium_backend/internals/features/requests/model"
	storeModel "tutorium_backend/internals/features/store/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

var (
	ErrItemNotFound        = errors.New("item not found")
	ErrNoTutor             = errors.New("student has no assigned tutor")
	ErrOutOfStock          = errors.New("item is out of stock")
	ErrInsufficientBalance = pointsService.ErrInsufficientBalance
	ErrAlreadyProcessed    = errors.New("request has already been processed")
	ErrInvalidStatus       = errors.New("status must be APPROVED or REJECTED")
)

// Submit creates a PENDING redemption request. The student's tutor and the
// item's current price are pinned onto the request so processing later works
// against what the student actually saw.
func Submit(db *gorm.DB, studentID, itemID uuid.UUID, note string) (*requestModel.ItemRequestModel, error) {
	var request requestModel.ItemRequestModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var student userModel.UserModel
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			return err
		}
		if student.TutorID == nil {
			return ErrNoTutor
		}

		// The student can only redeem from their own tutor's store.
		var item storeModel.StoreItemModel
		if err := tx.First(&item, "id = ? AND tutor_id = ?", itemID, *student.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if item.AvailableQuantity <= 0 {
			return ErrOutOfStock
		}
		if student.Points < item.PointsRequired {
			return ErrInsufficientBalance
		}

		request = requestModel.ItemRequestModel{
			StudentID:   student.ID,
			TutorID:     *student.TutorID,
			ItemID:      item.ID,
			Status:      requestModel.RequestPending,
			PointsSpent: item.PointsRequired,
			Note:        note,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Process resolves a PENDING request. Approval decrements stock, charges the
// snapshotted price through the ledger and flips the status in one
// transaction; any failed guard rolls the whole thing back. Rejection only
// records the status and note.
func Process(db *gorm.DB, requestID uuid.UUID, status, note string) (*requestModel.ItemRequestModel, error) {
	if status != requestModel.RequestApproved && status != requestModel.RequestRejected {
		return nil, ErrInvalidStatus
	}

	var processed requestModel.ItemRequestModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var request requestModel.ItemRequestModel
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"status": status}
		if note != "" {
			updates["note"] = note
		}

		// Compare-and-set on status: of two concurrent processors exactly
		// one sees RowsAffected == 1.
		res := tx.Model(&requestModel.ItemRequestModel{}).
			Where("id = ? AND status = ?", requestID, requestModel.RequestPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if status == requestModel.RequestApproved {
			// Guarded decrement: stock may have been consumed by another
			// approval since submission.
			res := tx.Model(&storeModel.StoreItemModel{}).
				Where("id = ? AND available_quantity > 0", request.ItemID).
				Update("available_quantity", gorm.Expr("available_quantity - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}

			reason := fmt.Sprintf("Redeemed store item (request %s)", request.ID)
			if err := pointsService.ApplyDelta(tx, request.StudentID, request.TutorID, -request.PointsSpent, reason); err != nil {
				return err
			}
		}

		return tx.Preload("Student").Preload("Item").
			First(&processed, "id = ?", requestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &processed, nil
}
