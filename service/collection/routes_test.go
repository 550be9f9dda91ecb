package collection

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
	"github.com/pixhaven/pixhaven-server/cmd/utils"
)

func setupTest(t *testing.T) (*gorm.DB, *mux.Router, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Collection{}, &models.CollectionImage{}))

	router := mux.NewRouter()
	NewCollectionHandler(db).RegisterRoutes(router)

	token, err := utils.GenerateToken("curator-1", "curator@example.com")
	require.NoError(t, err)

	return db, router, token
}

func createCollection(t *testing.T, router *mux.Router, token, name string) models.Collection {
	t.Helper()
	body, err := json.Marshal(map[string]string{"name": name})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/collections", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var collection models.Collection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	return collection
}

func TestCreateCollection(t *testing.T) {
	_, router, token := setupTest(t)

	collection := createCollection(t, router, token, "Travel shots")
	assert.Equal(t, "curator-1", collection.UserID)
	assert.Equal(t, "Travel shots", collection.Name)
	assert.NotEmpty(t, collection.CollectionID)

	t.Run("MissingNameIsValidationError", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/collections", bytes.NewReader([]byte("{}")))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSearchCollections(t *testing.T) {
	_, router, token := setupTest(t)

	createCollection(t, router, token, "Mountains")
	createCollection(t, router, token, "Seascapes")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections?query=moun", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var collections []models.Collection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collections))
	require.Len(t, collections, 1)
	assert.Equal(t, "Mountains", collections[0].Name)
}

func TestCollectionImages(t *testing.T) {
	_, router, token := setupTest(t)

	collection := createCollection(t, router, token, "Mountains")

	t.Run("AddImage", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"image_id": "img-1"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/collections/"+collection.CollectionID+"/images", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("AddToUnknownCollectionIs404", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"image_id": "img-1"})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/collections/"+uuid.New().String()+"/images", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("GetCollectionIncludesImageIDs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/"+collection.CollectionID, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Mountains", body["name"])

		imageIDs := body["image_ids"].([]interface{})
		require.Len(t, imageIDs, 1)
		assert.Equal(t, "img-1", imageIDs[0])
	})

	t.Run("ListMembers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/"+collection.CollectionID+"/images", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var members []models.CollectionImage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
		require.Len(t, members, 1)
		assert.Equal(t, "img-1", members[0].ImageID)
	})
}

func TestUpdateCollection(t *testing.T) {
	db, router, token := setupTest(t)

	collection := createCollection(t, router, token, "Old name")

	body, _ := json.Marshal(map[string]string{"name": "New name"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/collections/"+collection.CollectionID, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Collection
	require.NoError(t, db.Where("collection_id = ?", collection.CollectionID).First(&stored).Error)
	assert.Equal(t, "New name", stored.Name)
}
