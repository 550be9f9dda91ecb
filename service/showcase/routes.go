package showcase

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

type ShowcaseHandler struct {
	db *gorm.DB
}

func NewShowcaseHandler(db *gorm.DB) *ShowcaseHandler {
	return &ShowcaseHandler{db: db}
}

func (h *ShowcaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/showcases", utils.AuthMiddleware(h.CreateShowcase)).Methods("POST")
	router.HandleFunc("/showcases", h.SearchShowcases).Methods("GET")
	router.HandleFunc("/showcases/{showcase_id}", h.GetShowcase).Methods("GET")
	router.HandleFunc("/showcases/{showcase_id}", utils.AuthMiddleware(h.UpdateShowcase)).Methods("PUT")
	router.HandleFunc("/showcases/{showcase_id}", utils.AuthMiddleware(h.DeleteShowcase)).Methods("DELETE")
}

// showcaseDetail flattens the tag and image join rows into lists.
type showcaseDetail struct {
	models.Showcase
	Tags     []string `json:"tags"`
	ImageIDs []string `json:"image_ids"`
}

// CreateShowcase inserts the showcase with its tag and image rows in
// one transaction.
func (h *ShowcaseHandler) CreateShowcase(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateShowcaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	showcase := models.Showcase{
		ShowcaseID:  uuid.New().String(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
	}

	tx := h.db.Begin()
	if err := tx.Create(&showcase).Error; err != nil {
		tx.Rollback()
		utils.RespondError(w, http.StatusInternalServerError, "Error creating showcase")
		return
	}
	if err := h.replaceJoinRows(tx, showcase.ShowcaseID, input.Tags, input.ImageIDs); err != nil {
		tx.Rollback()
		utils.RespondError(w, http.StatusInternalServerError, "Error creating showcase")
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating showcase")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, showcaseDetail{
		Showcase: showcase,
		Tags:     emptyIfNil(input.Tags),
		ImageIDs: emptyIfNil(input.ImageIDs),
	})
}

func (h *ShowcaseHandler) SearchShowcases(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(),
		[]string{"title", "created_at"}, "created_at", "desc", 10)

	query := h.db.Model(&models.Showcase{})
	if pattern := params.LikePattern(); pattern != "" {
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var showcases []models.Showcase
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&showcases).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving showcases")
		return
	}

	utils.RespondJSON(w, http.StatusOK, showcases)
}

func (h *ShowcaseHandler) GetShowcase(w http.ResponseWriter, r *http.Request) {
	showcaseID := mux.Vars(r)["showcase_id"]

	var showcase models.Showcase
	result := h.db.Where("showcase_id = ?", showcaseID).First(&showcase)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Showcase not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "Error retrieving showcase")
		}
		return
	}

	detail, err := h.loadDetail(showcase)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving showcase")
		return
	}

	utils.RespondJSON(w, http.StatusOK, detail)
}

// UpdateShowcase applies a partial update; supplying tags or image_ids
// replaces the full list.
func (h *ShowcaseHandler) UpdateShowcase(w http.ResponseWriter, r *http.Request) {
	showcaseID := mux.Vars(r)["showcase_id"]

	var input validation.UpdateShowcaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var showcase models.Showcase
	if err := h.db.Where("showcase_id = ?", showcaseID).First(&showcase).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Showcase not found")
		return
	}

	tx := h.db.Begin()

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) > 0 {
		if err := tx.Model(&showcase).Updates(updates).Error; err != nil {
			tx.Rollback()
			utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
			return
		}
	}

	if input.Tags != nil {
		if err := tx.Where("showcase_id = ?", showcaseID).Delete(&models.ShowcaseTag{}).Error; err != nil {
			tx.Rollback()
			utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
			return
		}
		if err := h.insertTags(tx, showcaseID, input.Tags); err != nil {
			tx.Rollback()
			utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
			return
		}
	}
	if input.ImageIDs != nil {
		if err := tx.Where("showcase_id = ?", showcaseID).Delete(&models.ShowcaseImage{}).Error; err != nil {
			tx.Rollback()
			utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
			return
		}
		if err := h.insertImages(tx, showcaseID, input.ImageIDs); err != nil {
			tx.Rollback()
			utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating showcase")
		return
	}

	detail, err := h.loadDetail(showcase)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving showcase")
		return
	}
	utils.RespondJSON(w, http.StatusOK, detail)
}

// DeleteShowcase removes the showcase and its join rows; responds 204.
func (h *ShowcaseHandler) DeleteShowcase(w http.ResponseWriter, r *http.Request) {
	showcaseID := mux.Vars(r)["showcase_id"]

	var showcase models.Showcase
	if err := h.db.Where("showcase_id = ?", showcaseID).First(&showcase).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "Showcase not found")
		return
	}

	tx := h.db.Begin()
	if err := tx.Where("showcase_id = ?", showcaseID).Delete(&models.ShowcaseTag{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting showcase")
		return
	}
	if err := tx.Where("showcase_id = ?", showcaseID).Delete(&models.ShowcaseImage{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting showcase")
		return
	}
	if err := tx.Delete(&showcase).Error; err != nil {
		tx.Rollback()
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting showcase")
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error deleting showcase")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ShowcaseHandler) loadDetail(showcase models.Showcase) (showcaseDetail, error) {
	var tags []string
	if err := h.db.Model(&models.ShowcaseTag{}).
		Where("showcase_id = ?", showcase.ShowcaseID).
		Order("tag ASC").
		Pluck("tag", &tags).Error; err != nil {
		return showcaseDetail{}, err
	}

	var imageIDs []string
	if err := h.db.Model(&models.ShowcaseImage{}).
		Where("showcase_id = ?", showcase.ShowcaseID).
		Pluck("image_id", &imageIDs).Error; err != nil {
		return showcaseDetail{}, err
	}

	return showcaseDetail{
		Showcase: showcase,
		Tags:     emptyIfNil(tags),
		ImageIDs: emptyIfNil(imageIDs),
	}, nil
}

func (h *ShowcaseHandler) replaceJoinRows(tx *gorm.DB, showcaseID string, tags, imageIDs []string) error {
	if err := h.insertTags(tx, showcaseID, tags); err != nil {
		return err
	}
	return h.insertImages(tx, showcaseID, imageIDs)
}

func (h *ShowcaseHandler) insertTags(tx *gorm.DB, showcaseID string, tags []string) error {
	for _, tag := range tags {
		if err := tx.Create(&models.ShowcaseTag{ShowcaseID: showcaseID, Tag: tag}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *ShowcaseHandler) insertImages(tx *gorm.DB, showcaseID string, imageIDs []string) error {
	for _, imageID := range imageIDs {
		if err := tx.Create(&models.ShowcaseImage{ShowcaseID: showcaseID, ImageID: imageID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
