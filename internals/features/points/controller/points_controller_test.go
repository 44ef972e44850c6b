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

func seedUser(t *testing.T, db *gorm.DB, username, role string, tutorID *userModel.UserModel) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
		Role:     role,
		IsActive: true,
	}
	if tutorID != nil {
		u.TutorID = &tutorID.ID
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func bearerFor(t *testing.T, u *userModel.UserModel) string {
	t.Helper()
	token, err := authService.SignAccessToken(u, time.Now().UTC())
	require.NoError(t, err)
	return "Bearer " + token
}

func adjustPoints(t *testing.T, app *fiber.App, auth string, targetID string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/users/"+targetID+"/points", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAdjustPointsEndToEnd(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	student := seedUser(t, db, "student1", constants.RoleStudent, &tutor)

	resp := adjustPoints(t, app, bearerFor(t, &tutor), student.ID.String(), map[string]interface{}{
		"points": 40,
		"action": "add",
		"reason": "Great session",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	require.EqualValues(t, 40, user["points"])
}

func TestAdjustPointsForbiddenForWrongTutor(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	other := seedUser(t, db, "tutor2", constants.RoleTutor, nil)
	student := seedUser(t, db, "student1", constants.RoleStudent, &tutor)

	resp := adjustPoints(t, app, bearerFor(t, &other), student.ID.String(), map[string]interface{}{
		"points": 40,
		"action": "add",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var reloaded userModel.UserModel
	require.NoError(t, db.First(&reloaded, "id = ?", student.ID).Error)
	require.Equal(t, 0, reloaded.Points)
}

func TestAdjustPointsForbiddenForStudents(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	student := seedUser(t, db, "student1", constants.RoleStudent, &tutor)
	classmate := seedUser(t, db, "student2", constants.RoleStudent, &tutor)

	resp := adjustPoints(t, app, bearerFor(t, &student), classmate.ID.String(), map[string]interface{}{
		"points": 9999,
		"action": "add",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdjustPointsValidatesPayload(t *testing.T) {
	app, db := newTestApp(t)
	tutor := seedUser(t, db, "tutor1", constants.RoleTutor, nil)
	student := seedUser(t, db, "student1", constants.RoleStudent, &tutor)

	resp := adjustPoints(t, app, bearerFor(t, &tutor), student.ID.String(), map[string]interface{}{
		"points": 10,
		"action": "multiply",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = adjustPoints(t, app, bearerFor(t, &tutor), "not-a-uuid", map[string]interface{}{
		"points": 10,
		"action": "add",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdjustPointsUnknownTarget(t *testing.T) {
	app, db := newTestApp(t)
	admin := seedUser(t, db, "admin1", constants.RoleAdmin, nil)

	resp := adjustPoints(t, app, bearerFor(t, &admin), "00000000-0000-0000-0000-000000000001", map[string]interface{}{
		"points": 10,
		"action": "add",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
