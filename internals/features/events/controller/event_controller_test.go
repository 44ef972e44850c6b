package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tutorium_backend/internals/configs"
	"tutorium_backend/internals/constants"
	database "tutorium_backend/internals/databases"
	eventModel "tutorium_backend/internals/features/events/model"
	authService "tutorium_backend/internals/features/users/auth/service"
	userModel "tutorium_backend/internals/features/users/user/model"
	routes "tutorium_backend/internals/route"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
	t.Cleanup(func() {
		configs.JWTSecret = ""
		configs.JWTRefreshSecret = ""
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, username, role string, tutor *userModel.UserModel) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Role:     role,
		IsActive: true,
	}
	if tutor != nil {
		u.TutorID = &tutor.ID
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedGroupEvent(t *testing.T, db *gorm.DB, tutor *userModel.UserModel, points int) eventModel.EventModel {
	t.Helper()
	event := eventModel.EventModel{
		Title:       "Chess Night",
		Scope:       eventModel.ScopeGroup,
		Status:      eventModel.StatusUpcoming,
		Type:        eventModel.TypeInPerson,
		StartTime:   time.Now().Add(24 * time.Hour),
		Capacity:    10,
		Points:      points,
		CreatedByID: tutor.ID,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func bearerFor(t *testing.T, u *userModel.UserModel) string {
	t.Helper()
	token, err := authService.SignAccessToken(u, time.Now().UTC())
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, payload interface{}) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRosterHiddenFromNonParticipants(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	joined := seedUser(t, db, "student1", constants.RoleStudent, &tutor)
	outsider := seedUser(t, db, "student2", constants.RoleStudent, &tutor)
	event := seedGroupEvent(t, db, &tutor, 0)

	path := "/api/events/" + event.ID.String() + "/participants"

	resp := doJSON(t, app, http.MethodPost, "/api/events/"+event.ID.String()+"/join", bearerFor(t, &joined), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A student who never joined cannot read the roster.
	resp = doJSON(t, app, http.MethodGet, path, bearerFor(t, &outsider), nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A participant and any staff member can.
	resp = doJSON(t, app, http.MethodGet, path, bearerFor(t, &joined), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	other := seedUser(t, db, "tutor2", constants.RoleTutor, nil)
	resp = doJSON(t, app, http.MethodGet, path, bearerFor(t, &other), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAttendanceCannotBeRevertedOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	student := seedUser(t, db, "student1", constants.RoleStudent, &tutor)
	event := seedGroupEvent(t, db, &tutor, 15)

	resp := doJSON(t, app, http.MethodPost, "/api/events/"+event.ID.String()+"/join", bearerFor(t, &student), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	path := "/api/events/" + event.ID.String() + "/participants/" + student.ID.String()

	resp = doJSON(t, app, http.MethodPatch, path, bearerFor(t, &tutor), map[string]interface{}{
		"status": eventModel.ParticipantAttended,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, path, bearerFor(t, &tutor), map[string]interface{}{
		"status": eventModel.ParticipantRegistered,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", student.ID).Error)
	require.Equal(t, 15, reloaded.Points)
}
