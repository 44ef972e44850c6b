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
	classroomModel "tutorium_backend/internals/features/classroom/model"
	authService "tutorium_backend/internals/features/users/auth/service"
	registrationModel "tutorium_backend/internals/features/users/registration/model"
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

func doJSON(t *testing.T, app *fiber.App, method, path string, u *userModel.UserModel, payload interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		token, err := authService.SignAccessToken(u, time.Now().UTC())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedAdminAndTutor(t *testing.T, db *gorm.DB) (admin, tutor userModel.UserModel) {
	t.Helper()
	admin = userModel.UserModel{
		Username: "admin1", Email: "admin1@example.com",
		Password: "hashed-password", Role: constants.RoleAdmin, IsActive: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	tutor = userModel.UserModel{
		Username: "tutor1", Email: "tutor1@example.com",
		Password: "hashed-password", Role: constants.RoleTutor, IsActive: true,
	}
	require.NoError(t, db.Create(&tutor).Error)
	return admin, tutor
}

func TestRegistrationApprovalCreatesUser(t *testing.T) {
	app, db := newTestApp(t)
	admin, tutor := seedAdminAndTutor(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "newstudent",
		"email":    "newstudent@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registration := decodeJSON(t, resp)["registration"].(map[string]interface{})
	require.Equal(t, "PENDING", registration["status"])
	regID := registration["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/api/admin/registration-requests/"+regID, &admin, map[string]string{
		"status":   "APPROVED",
		"tutor_id": tutor.ID.String(),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "username = ?", "newstudent").Error)
	require.Equal(t, constants.RoleStudent, user.Role)
	require.NotNil(t, user.TutorID)
	require.Equal(t, tutor.ID, *user.TutorID)
}

func TestRegistrationRejectionRequiresReason(t *testing.T) {
	app, db := newTestApp(t)
	admin, _ := seedAdminAndTutor(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "applicant",
		"email":    "applicant@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	regID := decodeJSON(t, resp)["registration"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/api/admin/registration-requests/"+regID, &admin, map[string]string{
		"status": "REJECTED",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, "/api/admin/registration-requests/"+regID, &admin, map[string]string{
		"status": "REJECTED",
		"reason": "incomplete application",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reg registrationModel.RegistrationRequestModel
	require.NoError(t, db.First(&reg, "id = ?", regID).Error)
	require.Equal(t, registrationModel.RegistrationRejected, reg.Status)
	require.NotNil(t, reg.RejectionReason)

	// No account was created.
	var count int64
	require.NoError(t, db.Model(&userModel.UserModel{}).
		Where("username = ?", "applicant").Count(&count).Error)
	require.Zero(t, count)
}

func TestRegistrationRejectsDuplicates(t *testing.T) {
	app, db := newTestApp(t)
	seedAdminAndTutor(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "tutor1", // taken by a live account
		"email":    "fresh@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "pendingname",
		"email":    "pending@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "pendingname",
		"email":    "different@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestApprovedTutorGetsClassroom(t *testing.T) {
	app, db := newTestApp(t)
	admin, _ := seedAdminAndTutor(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username":       "newtutor",
		"email":          "newtutor@example.com",
		"password":       "secret-password",
		"requested_role": "TUTOR",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	regID := decodeJSON(t, resp)["registration"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/api/admin/registration-requests/"+regID, &admin, map[string]string{
		"status": "APPROVED",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "username = ?", "newtutor").Error)
	var classroom classroomModel.ClassroomModel
	require.NoError(t, db.First(&classroom, "tutor_id = ?", user.ID).Error)
}

func TestProcessingRequiresAdmin(t *testing.T) {
	app, db := newTestApp(t)
	_, tutor := seedAdminAndTutor(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/register", nil, map[string]string{
		"username": "someone",
		"email":    "someone@example.com",
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	regID := decodeJSON(t, resp)["registration"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, http.MethodPut, "/api/admin/registration-requests/"+regID, &tutor, map[string]string{
		"status": "APPROVED",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
