package helper

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation matches duplicate-key failures from postgres and the
// sqlite driver used in tests.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
