package collection

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/models"
	"github.com/pixhaven/pixhaven-server/cmd/utils"
	"github.com/pixhaven/pixhaven-server/cmd/validation"
)

type CollectionHandler struct {
	db *gorm.DB
}

func NewCollectionHandler(db *gorm.DB) *CollectionHandler {
	return &CollectionHandler{db: db}
}

func (h *CollectionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/collections", utils.AuthMiddleware(h.CreateCollection)).Methods("POST")
	router.HandleFunc("/collections", h.SearchCollections).Methods("GET")
	router.HandleFunc("/collections/{collection_id}", h.GetCollection).Methods("GET")
	router.HandleFunc("/collections/{collection_id}", utils.AuthMiddleware(h.UpdateCollection)).Methods("PUT")
	router.HandleFunc("/collections/{collection_id}/images", utils.AuthMiddleware(h.AddImage)).Methods("POST")
	router.HandleFunc("/collections/{collection_id}/images", h.GetImages).Methods("GET")
}

func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateCollectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	collection := models.Collection{
		CollectionID: uuid.New().String(),
		UserID:       userID,
		Name:         input.Name,
		Description:  input.Description,
	}
	if err := h.db.Create(&collection).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating collection")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, collection)
}

// SearchCollections filters over name and description.
func (h *CollectionHandler) SearchCollections(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(),
		[]string{"name", "created_at"}, "created_at", "desc", 10)

	query := h.db.Model(&models.Collection{})
	if pattern := params.LikePattern(); pattern != "" {
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern)
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var collections []models.Collection
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&collections).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving collections")
		return
	}

	utils.RespondJSON(w, http.StatusOK, collections)
}

// GetCollection returns the collection with its member image ids.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collectionID := mux.Vars(r)["collection_id"]

	var collection models.Collection
	result := h.db.Where("collection_id = ?", collectionID).First(&collection)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Collection not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "Error retrieving collection")
		}
		return
	}

	imageIDs, err := h.memberImageIDs(collectionID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving collection images")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"collection_id": collection.CollectionID,
		"user_id":       collection.UserID,
		"name":          collection.Name,
		"description":   collection.Description,
		"created_at":    collection.CreatedAt,
		"image_ids":     imageIDs,
	})
}

func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	collectionID := mux.Vars(r)["collection_id"]

	var input validation.UpdateCollectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var collection models.Collection
	if err := h.db.Where("collection_id = ?", collectionID).First(&collection).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := h.db.Model(&collection).Updates(updates).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error updating collection")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, collection)
}

func (h *CollectionHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	collectionID := mux.Vars(r)["collection_id"]

	var input validation.AddCollectionImageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var collection models.Collection
	if err := h.db.Where("collection_id = ?", collectionID).First(&collection).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	member := models.CollectionImage{
		CollectionID: collectionID,
		ImageID:      input.ImageID,
	}
	if err := h.db.Create(&member).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error adding image to collection")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, member)
}

func (h *CollectionHandler) GetImages(w http.ResponseWriter, r *http.Request) {
	collectionID := mux.Vars(r)["collection_id"]

	var members []models.CollectionImage
	if err := h.db.Where("collection_id = ?", collectionID).Find(&members).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving collection images")
		return
	}

	utils.RespondJSON(w, http.StatusOK, members)
}

func (h *CollectionHandler) memberImageIDs(collectionID string) ([]string, error) {
	var imageIDs []string
	err := h.db.Model(&models.CollectionImage{}).
		Where("collection_id = ?", collectionID).
		Pluck("image_id", &imageIDs).Error
	if imageIDs == nil {
		imageIDs = []string{}
	}
	return imageIDs, err
}
