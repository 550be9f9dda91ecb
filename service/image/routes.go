package image

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

var sortColumns = []string{"uploaded_at", "title", "created_at"}

type ImageHandler struct {
	db *gorm.DB
}

func NewImageHandler(db *gorm.DB) *ImageHandler {
	return &ImageHandler{db: db}
}

func (h *ImageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/images", utils.AuthMiddleware(h.UploadImage)).Methods("POST")
	router.HandleFunc("/images", h.GetImages).Methods("GET")
	router.HandleFunc("/images/search", h.SearchImages).Methods("GET")
	router.HandleFunc("/images/{image_id}", h.GetImage).Methods("GET")
	router.HandleFunc("/images/{image_id}", utils.AuthMiddleware(h.UpdateImage)).Methods("PUT")
	router.HandleFunc("/images/{image_id}/tags", utils.AuthMiddleware(h.AddTag)).Methods("POST")
	router.HandleFunc("/images/{image_id}/tags", h.GetTags).Methods("GET")
	router.HandleFunc("/tags", h.SearchTags).Methods("GET")
}

// UploadImage accepts a multipart form with an "image" file field plus
// title/description/categories, stores the file on local disk and
// records the row.
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	if err := r.ParseMultipartForm(utils.MaxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	input := validation.CreateImageInput{
		Title:       r.FormValue("title"),
		Description: optionalFormValue(r, "description"),
		Categories:  optionalFormValue(r, "categories"),
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	imageURL, err := utils.SaveUpload(file, header)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error saving image")
		return
	}

	image := models.Image{
		ImageID:     uuid.New().String(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    imageURL,
		Categories:  input.Categories,
	}
	if err := h.db.Create(&image).Error; err != nil {
		utils.DeleteUpload(imageURL)
		utils.RespondError(w, http.StatusInternalServerError, "Error saving image record")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, image)
}

// GetImages lists images joined with the owner's username, newest first
// by default.
func (h *ImageHandler) GetImages(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), sortColumns, "uploaded_at", "DESC", 20)
	h.respondImageList(w, params, "")
}

// SearchImages adds a case-insensitive substring filter across title,
// description and categories. A blank query lists everything.
func (h *ImageHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), sortColumns, "uploaded_at", "DESC", 20)
	h.respondImageList(w, params, params.LikePattern())
}

func (h *ImageHandler) respondImageList(w http.ResponseWriter, params validation.SearchParams, pattern string) {
	query := h.db.Table("images").
		Select("images.*, users.username").
		Joins("LEFT JOIN users ON users.user_id = images.user_id")

	if pattern != "" {
		query = query.Where(
			"LOWER(images.title) LIKE ? OR LOWER(COALESCE(images.description, '')) LIKE ? OR LOWER(COALESCE(images.categories, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var rows []models.ImageWithOwner
	if err := query.Order("images." + params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Scan(&rows).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}

	if rows == nil {
		rows = []models.ImageWithOwner{}
	}
	utils.RespondJSON(w, http.StatusOK, rows)
}

func (h *ImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["image_id"]

	var image models.Image
	result := h.db.Where("image_id = ?", imageID).First(&image)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Image not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "Error retrieving image")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, image)
}

// UpdateImage applies a partial update to title/description/categories.
func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["image_id"]

	var input validation.UpdateImageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var image models.Image
	if err := h.db.Where("image_id = ?", imageID).First(&image).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Image not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Categories != nil {
		updates["categories"] = *input.Categories
	}

	if len(updates) > 0 {
		if err := h.db.Model(&image).Updates(updates).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error updating image")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, image)
}

func (h *ImageHandler) AddTag(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["image_id"]

	var input validation.CreateImageTagInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var image models.Image
	if err := h.db.Where("image_id = ?", imageID).First(&image).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Image not found")
		return
	}

	tag := models.ImageTag{ImageID: imageID, Tag: input.Tag}
	if err := h.db.Create(&tag).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating tag")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, tag)
}

func (h *ImageHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["image_id"]

	var tags []models.ImageTag
	if err := h.db.Where("image_id = ?", imageID).Order("tag ASC").Find(&tags).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving tags")
		return
	}

	utils.RespondJSON(w, http.StatusOK, tags)
}

// SearchTags lists tags across all images with substring filtering.
func (h *ImageHandler) SearchTags(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), []string{"tag"}, "tag", "asc", 10)

	query := h.db.Model(&models.ImageTag{})
	if pattern := params.LikePattern(); pattern != "" {
		query = query.Where("LOWER(tag) LIKE ?", pattern)
	}

	var tags []models.ImageTag
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&tags).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving tags")
		return
	}

	utils.RespondJSON(w, http.StatusOK, tags)
}

func optionalFormValue(r *http.Request, key string) *string {
	value := r.FormValue(key)
	if value == "" {
		return nil
	}
	return &value
}
