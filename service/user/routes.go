package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/models"
	"github.com/pixhaven/pixhaven-server/cmd/utils"
	"github.com/pixhaven/pixhaven-server/cmd/validation"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.HandleRegister).Methods("POST")
	router.HandleFunc("/auth/login", h.HandleLogin).Methods("POST")
	router.HandleFunc("/users", h.SearchUsers).Methods("GET")
	router.HandleFunc("/users/{user_id}", utils.AuthMiddleware(h.GetUser)).Methods("GET")
	router.HandleFunc("/users/{user_id}", utils.AuthMiddleware(h.UpdateUser)).Methods("PUT")
}

// HandleRegister creates a user and issues a token. The client supplies
// the password already hashed; the server stores it as given. Duplicate
// detection rides on the unique email index so concurrent registrations
// of the same address both resolve to the same 400.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input validation.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	user := models.User{
		UserID:         uuid.New().String(),
		Email:          strings.ToLower(input.Email),
		Username:       input.Username,
		PasswordHash:   input.PasswordHash,
		ProfilePicture: input.ProfilePicture,
	}
	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.Email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	go func() {
		if err := utils.SendWelcomeEmail(user.Email, user.Username); err != nil {
			log.Printf("error sending welcome email: %v", err)
		}
	}()

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user.Public(),
		"token":   token,
	})
}

// HandleLogin matches email and stored password hash in one lookup.
// Unknown email and wrong password collapse into the same response.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	result := h.db.Where("email = ? AND password_hash = ?",
		strings.ToLower(loginRequest.Email), loginRequest.Password).First(&user)
	if result.Error != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.UserID, user.Email)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Public(),
		"token":   token,
	})
}

// SearchUsers lists users with optional free-text filter over username
// and email.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(),
		[]string{"username", "created_at"}, "created_at", "desc", 10)

	query := h.db.Model(&models.User{})
	if pattern := params.LikePattern(); pattern != "" {
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var users []models.User
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&users).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	utils.RespondJSON(w, http.StatusOK, profiles)
}

// GetUser returns public profile fields only.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var user models.User
	result := h.db.Where("user_id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "User not found")
		} else {
			utils.RespondError(w, http.StatusInternalServerError, "Error retrieving user")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, user.Public())
}

// UpdateUser applies a partial update; only supplied fields change.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var input validation.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	var user models.User
	if err := h.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	updates := map[string]interface{}{}
	if input.Email != nil {
		updates["email"] = strings.ToLower(*input.Email)
	}
	if input.Username != nil {
		updates["username"] = *input.Username
	}
	if input.PasswordHash != nil {
		updates["password_hash"] = *input.PasswordHash
	}
	if input.ProfilePicture != nil {
		updates["profile_picture"] = *input.ProfilePicture
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Error updating user")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, user.Public())
}
