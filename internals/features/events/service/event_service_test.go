package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tutorium_backend/internals/constants"
	database "tutorium_backend/internals/databases"
	eventModel "tutorium_backend/internals/features/events/model"
	pointsModel "tutorium_backend/internals/features/points/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, name string, tutorID uuid.UUID) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Username: name,
		Email:    name + "@example.com",
		Password: "hashed-password",
		Role:     constants.RoleStudent,
		TutorID:  &tutorID,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedEvent(t *testing.T, db *gorm.DB, capacity, points int) (userModel.UserModel, eventModel.EventModel) {
	t.Helper()
	tutor := userModel.UserModel{
		Username: "tutor1",
		Email:    "tutor1@example.com",
		Password: "hashed-password",
		Role:     constants.RoleTutor,
		IsActive: true,
	}
	require.NoError(t, db.Create(&tutor).Error)

	event := eventModel.EventModel{
		Title:       "Chess Night",
		Scope:       eventModel.ScopeGroup,
		Status:      eventModel.StatusUpcoming,
		Type:        eventModel.TypeInPerson,
		StartTime:   time.Now().Add(24 * time.Hour),
		Capacity:    capacity,
		Points:      points,
		CreatedByID: tutor.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	return tutor, event
}

func registeredCount(t *testing.T, db *gorm.DB, eventID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&eventModel.EventParticipantModel{}).
		Where("event_id = ? AND status = ?", eventID, eventModel.ParticipantRegistered).
		Count(&n).Error)
	return n
}

func TestJoinFillsUpToCapacity(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 2, 0)

	a := seedStudent(t, db, "alice", tutor.ID)
	b := seedStudent(t, db, "bob", tutor.ID)
	c := seedStudent(t, db, "carol", tutor.ID)

	_, enrolled, err := Join(db, event.ID, a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, enrolled)

	_, enrolled, err = Join(db, event.ID, b.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, enrolled)

	// Third join overruns capacity and must roll back entirely.
	_, _, err = Join(db, event.ID, c.ID)
	require.ErrorIs(t, err, ErrEventFull)
	require.EqualValues(t, 2, registeredCount(t, db, event.ID))
}

func TestJoinRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 10, 0)
	a := seedStudent(t, db, "alice", tutor.ID)

	_, _, err := Join(db, event.ID, a.ID)
	require.NoError(t, err)

	_, _, err = Join(db, event.ID, a.ID)
	require.ErrorIs(t, err, ErrAlreadyJoined)
	require.EqualValues(t, 1, registeredCount(t, db, event.ID))
}

func TestJoinRequiresUpcomingEvent(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 10, 0)
	a := seedStudent(t, db, "alice", tutor.ID)

	for _, status := range []string{
		eventModel.StatusOngoing,
		eventModel.StatusCompleted,
		eventModel.StatusCancelled,
	} {
		require.NoError(t, db.Model(&event).Update("status", status).Error)
		_, _, err := Join(db, event.ID, a.ID)
		require.ErrorIs(t, err, ErrEventNotJoinable)
	}

	_, _, err := Join(db, uuid.New(), a.ID)
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestZeroCapacityMeansUnlimited(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 0, 0)

	for i := 0; i < 5; i++ {
		s := seedStudent(t, db, fmt.Sprintf("student%d", i), tutor.ID)
		_, _, err := Join(db, event.ID, s.ID)
		require.NoError(t, err)
	}
	require.EqualValues(t, 5, registeredCount(t, db, event.ID))
}

func TestAttendanceAwardsPointsOnce(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 10, 15)
	a := seedStudent(t, db, "alice", tutor.ID)

	_, _, err := Join(db, event.ID, a.ID)
	require.NoError(t, err)

	p, err := SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantAttended)
	require.NoError(t, err)
	require.Equal(t, eventModel.ParticipantAttended, p.Status)

	var student userModel.UserModel
	require.NoError(t, db.First(&student, "id = ?", a.ID).Error)
	require.Equal(t, 15, student.Points)

	// Marking ATTENDED again must not pay out twice.
	_, err = SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantAttended)
	require.NoError(t, err)

	var awards int64
	require.NoError(t, db.Model(&pointsModel.PointsTransactionModel{}).
		Where("student_id = ? AND type = ?", a.ID, pointsModel.TransactionAward).
		Count(&awards).Error)
	require.EqualValues(t, 1, awards)
}

func TestRecordedAttendanceIsFinal(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 10, 15)
	a := seedStudent(t, db, "alice", tutor.ID)

	_, _, err := Join(db, event.ID, a.ID)
	require.NoError(t, err)

	_, err = SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantAttended)
	require.NoError(t, err)

	// Reverting to REGISTERED (and re-attending) must be rejected, or the
	// event's points could be collected more than once.
	_, err = SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantRegistered)
	require.ErrorIs(t, err, ErrAttendanceFinal)
	_, err = SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantAbsent)
	require.ErrorIs(t, err, ErrAttendanceFinal)

	var awards int64
	require.NoError(t, db.Model(&pointsModel.PointsTransactionModel{}).
		Where("student_id = ? AND type = ?", a.ID, pointsModel.TransactionAward).
		Count(&awards).Error)
	require.EqualValues(t, 1, awards)

	var student userModel.UserModel
	require.NoError(t, db.First(&student, "id = ?", a.ID).Error)
	require.Equal(t, 15, student.Points)

	b := seedStudent(t, db, "bob", tutor.ID)
	_, _, err = Join(db, event.ID, b.ID)
	require.NoError(t, err)
	_, err = SetParticipantStatus(db, event.ID, b.ID, eventModel.ParticipantAbsent)
	require.NoError(t, err)
	_, err = SetParticipantStatus(db, event.ID, b.ID, eventModel.ParticipantAttended)
	require.ErrorIs(t, err, ErrAttendanceFinal)
}

func TestAbsentAwardsNothing(t *testing.T) {
	db := setupTestDB(t)
	tutor, event := seedEvent(t, db, 10, 15)
	a := seedStudent(t, db, "alice", tutor.ID)

	_, _, err := Join(db, event.ID, a.ID)
	require.NoError(t, err)

	p, err := SetParticipantStatus(db, event.ID, a.ID, eventModel.ParticipantAbsent)
	require.NoError(t, err)
	require.Equal(t, eventModel.ParticipantAbsent, p.Status)

	var student userModel.UserModel
	require.NoError(t, db.First(&student, "id = ?", a.ID).Error)
	require.Equal(t, 0, student.Points)

	_, err = SetParticipantStatus(db, event.ID, uuid.New(), eventModel.ParticipantAttended)
	require.ErrorIs(t, err, ErrNotParticipant)
}
