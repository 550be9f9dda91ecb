package notification

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

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/notifications", utils.AuthMiddleware(h.CreateNotification)).Methods("POST")
	router.HandleFunc("/notifications", utils.AuthMiddleware(h.GetNotifications)).Methods("GET")
	router.HandleFunc("/notifications/{notification_id}/read", utils.AuthMiddleware(h.MarkRead)).Methods("PUT")
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var input validation.CreateNotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	notification := models.Notification{
		NotificationID: uuid.New().String(),
		UserID:         input.UserID,
		Type:           input.Type,
		EntityID:       input.EntityID,
		Message:        input.Message,
	}

	if err := h.db.Create(&notification).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating notification")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, notification)
}

// GetNotifications lists notifications newest first for the user named
// by the user_id query param, defaulting to the caller.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	callerID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = callerID
	}

	params := validation.ParseSearchParams(r.URL.Query(),
		[]string{"created_at"}, "created_at", "desc", 10)

	query := h.db.Where("user_id = ?", userID)
	if unread := r.URL.Query().Get("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&notifications).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving notifications")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]

	var notification models.Notification
	result := h.db.Where("notification_id = ?", notificationID).First(&notification)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Notification not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "Error retrieving notification")
		}
		return
	}

	if err := h.db.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error updating notification")
		return
	}

	utils.RespondJSON(w, http.StatusOK, notification)
}
