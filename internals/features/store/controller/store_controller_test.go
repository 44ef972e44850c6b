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
	storeModel "tutorium_backend/internals/features/store/model"
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

func request(t *testing.T, app *fiber.App, method, path string, u *userModel.UserModel, payload interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	token, err := authService.SignAccessToken(u, time.Now().UTC())
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func seedTutors(t *testing.T, db *gorm.DB) (a, b userModel.UserModel) {
	t.Helper()
	a = userModel.UserModel{
		Username: "tutora", Email: "tutora@example.com",
		Password: "hashed-password", Role: constants.RoleTutor, IsActive: true,
	}
	require.NoError(t, db.Create(&a).Error)
	b = userModel.UserModel{
		Username: "tutorb", Email: "tutorb@example.com",
		Password: "hashed-password", Role: constants.RoleTutor, IsActive: true,
	}
	require.NoError(t, db.Create(&b).Error)
	return a, b
}

func TestStudentSeesOnlyOwnTutorsStore(t *testing.T) {
	app, db := newTestApp(t)
	tutorA, tutorB := seedTutors(t, db)

	student := userModel.UserModel{
		Username: "student1", Email: "student1@example.com",
		Password: "hashed-password", Role: constants.RoleStudent,
		TutorID: &tutorA.ID, IsActive: true,
	}
	require.NoError(t, db.Create(&student).Error)

	require.NoError(t, db.Create(&storeModel.StoreItemModel{
		TutorID: tutorA.ID, Name: "Pencil", PointsRequired: 10, AvailableQuantity: 5,
	}).Error)
	require.NoError(t, db.Create(&storeModel.StoreItemModel{
		TutorID: tutorB.ID, Name: "Eraser", PointsRequired: 5, AvailableQuantity: 5,
	}).Error)

	resp := request(t, app, http.MethodGet, "/api/store", &student, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	require.Equal(t, "Pencil", items[0].(map[string]interface{})["name"])
}

func TestDuplicateItemNamePerTutorConflicts(t *testing.T) {
	app, db := newTestApp(t)
	tutorA, tutorB := seedTutors(t, db)

	payload := map[string]interface{}{
		"name":               "Sticker",
		"points_required":    20,
		"available_quantity": 3,
	}
	resp := request(t, app, http.MethodPost, "/api/store", &tutorA, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/api/store", &tutorA, payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// A different tutor can reuse the name.
	resp = request(t, app, http.MethodPost, "/api/store", &tutorB, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestUpdateItemOwnershipEnforced(t *testing.T) {
	app, db := newTestApp(t)
	tutorA, tutorB := seedTutors(t, db)

	item := storeModel.StoreItemModel{
		TutorID: tutorA.ID, Name: "Badge", PointsRequired: 30, AvailableQuantity: 2,
	}
	require.NoError(t, db.Create(&item).Error)

	resp := request(t, app, http.MethodPut, "/api/store/"+item.ID.String(), &tutorB, map[string]interface{}{
		"points_required": 1,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = request(t, app, http.MethodPut, "/api/store/"+item.ID.String(), &tutorA, map[string]interface{}{
		"points_required": 35,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded storeModel.StoreItemModel
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.Equal(t, 35, reloaded.PointsRequired)
}

func TestAdminCreatesItemForTutor(t *testing.T) {
	app, db := newTestApp(t)
	tutorA, _ := seedTutors(t, db)

	admin := userModel.UserModel{
		Username: "admin1", Email: "admin1@example.com",
		Password: "hashed-password", Role: constants.RoleAdmin, IsActive: true,
	}
	require.NoError(t, db.Create(&admin).Error)

	// tutor_id is mandatory for admins.
	resp := request(t, app, http.MethodPost, "/api/store", &admin, map[string]interface{}{
		"name":            "Trophy",
		"points_required": 100,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = request(t, app, http.MethodPost, "/api/store", &admin, map[string]interface{}{
		"name":            "Trophy",
		"points_required": 100,
		"tutor_id":        tutorA.ID.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item storeModel.StoreItemModel
	require.NoError(t, db.First(&item, "name = ?", "Trophy").Error)
	require.Equal(t, tutorA.ID, item.TutorID)
}
