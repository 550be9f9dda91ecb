package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pixhaven/pixhaven-server/cmd/models"
)

func setupTest(t *testing.T) (*gorm.DB, *mux.Router) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	router := mux.NewRouter()
	NewHandler(db).RegisterRoutes(router)
	return db, router
}

func postJSON(t *testing.T, router *mux.Router, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	db, router := setupTest(t)

	t.Run("CreatesUserAndIssuesToken", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/register", map[string]string{
			"email":         "Ada@Example.com",
			"username":      "ada",
			"password_hash": "0123456789abcdef",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "User created successfully", body["message"])
		assert.NotEmpty(t, body["token"])

		user := body["user"].(map[string]interface{})
		assert.Equal(t, "ada@example.com", user["email"])
		assert.NotContains(t, user, "password_hash")

		var stored models.User
		require.NoError(t, db.Where("email = ?", "ada@example.com").First(&stored).Error)
		assert.Equal(t, "0123456789abcdef", stored.PasswordHash)
	})

	t.Run("DuplicateEmailIs400", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/register", map[string]string{
			"email":         "ada@example.com",
			"username":      "ada2",
			"password_hash": "fedcba9876543210",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "User with this email already exists", body["message"])
	})

	t.Run("InvalidInputIsValidationError", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/register", map[string]string{
			"email": "not-an-email",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Validation error", body["message"])
		assert.NotEmpty(t, body["details"])
	})
}

func TestHandleLogin(t *testing.T) {
	_, router := setupTest(t)

	rec := postJSON(t, router, "/auth/register", map[string]string{
		"email":         "ada@example.com",
		"username":      "ada",
		"password_hash": "0123456789abcdef",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("Success", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "Ada@Example.com",
			"password": "0123456789abcdef",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Login successful", body["message"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong-hash-value",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("UnknownEmailSameMessage", func(t *testing.T) {
		rec := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "0123456789abcdef",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid email or password", body["message"])
	})
}

func TestSearchUsers(t *testing.T) {
	db, router := setupTest(t)

	for _, u := range []models.User{
		{UserID: uuid.New().String(), Email: "ada@example.com", Username: "ada", PasswordHash: "x"},
		{UserID: uuid.New().String(), Email: "grace@example.com", Username: "grace", PasswordHash: "x"},
		{UserID: uuid.New().String(), Email: "linus@example.com", Username: "linus", PasswordHash: "x"},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	t.Run("FilterByUsername", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?query=GRA", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var users []models.PublicProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "grace", users[0].Username)
	})

	t.Run("BlankQueryListsAll", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var users []models.PublicProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 3)
	})

	t.Run("LimitApplied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?limit=2", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var users []models.PublicProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 2)
	})
}

func TestGetUser(t *testing.T) {
	db, router := setupTest(t)

	user := models.User{UserID: uuid.New().String(), Email: "ada@example.com", Username: "ada", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	token := registerToken(t, router)

	t.Run("Found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/"+user.UserID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var profile models.PublicProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, user.UserID, profile.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.New().String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("NoTokenIs401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+user.UserID, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateUser(t *testing.T) {
	db, router := setupTest(t)

	user := models.User{UserID: uuid.New().String(), Email: "ada@example.com", Username: "ada", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	token := registerToken(t, router)

	body, _ := json.Marshal(map[string]string{"username": "countess"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/users/"+user.UserID, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&stored).Error)
	assert.Equal(t, "countess", stored.Username)
	assert.Equal(t, "ada@example.com", stored.Email)
}

// registerToken registers a throwaway caller and returns its token.
func registerToken(t *testing.T, router *mux.Router) string {
	t.Helper()
	rec := postJSON(t, router, "/auth/register", map[string]string{
		"email":         uuid.New().String() + "@example.com",
		"username":      "caller",
		"password_hash": "0123456789abcdef",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["token"].(string)
}
