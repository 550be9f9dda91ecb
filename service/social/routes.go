package social

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/models"
	"github.com/pixhaven/pixhaven-server/cmd/utils"
	"github.com/pixhaven/pixhaven-server/cmd/validation"
	"github.com/pixhaven/pixhaven-server/service/ws"
)

// SocialHandler covers comments, likes, follows and favorites. The
// first three broadcast the created row to every connected socket
// client and leave a notification row for the affected user.
type SocialHandler struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewSocialHandler(db *gorm.DB, hub *ws.Hub) *SocialHandler {
	return &SocialHandler{db: db, hub: hub}
}

func (h *SocialHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/comments", utils.AuthMiddleware(h.CreateComment)).Methods("POST")
	router.HandleFunc("/comments", h.GetComments).Methods("GET")
	router.HandleFunc("/likes", utils.AuthMiddleware(h.CreateLike)).Methods("POST")
	router.HandleFunc("/likes", h.GetLikes).Methods("GET")
	router.HandleFunc("/follows", utils.AuthMiddleware(h.CreateFollow)).Methods("POST")
	router.HandleFunc("/follows", h.GetFollows).Methods("GET")
	router.HandleFunc("/favorites", utils.AuthMiddleware(h.CreateFavorite)).Methods("POST")
	router.HandleFunc("/favorites", h.GetFavorites).Methods("GET")
}

// CreateComment inserts the comment, notifies the image owner and
// broadcasts comment/added.
func (h *SocialHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateCommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	comment := models.Comment{
		CommentID: uuid.New().String(),
		ImageID:   input.ImageID,
		UserID:    userID,
		Content:   input.Content,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating comment")
		return
	}

	h.notifyImageOwner(comment.ImageID, userID, "comment",
		"%s commented on your image \"%s\"")
	h.hub.Broadcast("comment/added", comment)

	utils.RespondJSON(w, http.StatusCreated, comment)
}

func (h *SocialHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), []string{"created_at"}, "created_at", "desc", 10)

	query := h.db.Model(&models.Comment{})
	if imageID := r.URL.Query().Get("image_id"); imageID != "" {
		query = query.Where("image_id = ?", imageID)
	}

	var comments []models.Comment
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&comments).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving comments")
		return
	}

	utils.RespondJSON(w, http.StatusOK, comments)
}

// CreateLike inserts a like row. Repeat likes from the same user are
// permitted; there is no uniqueness check.
func (h *SocialHandler) CreateLike(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateLikeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	like := models.Like{
		LikeID:  uuid.New().String(),
		ImageID: input.ImageID,
		UserID:  userID,
	}
	if err := h.db.Create(&like).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating like")
		return
	}

	h.notifyImageOwner(like.ImageID, userID, "like", "%s liked your image \"%s\"")
	h.hub.Broadcast("like/added", like)

	utils.RespondJSON(w, http.StatusCreated, like)
}

func (h *SocialHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), []string{"image_id"}, "image_id", "asc", 10)

	query := h.db.Model(&models.Like{})
	if imageID := r.URL.Query().Get("image_id"); imageID != "" {
		query = query.Where("image_id = ?", imageID)
	}

	var likes []models.Like
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&likes).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving likes")
		return
	}

	utils.RespondJSON(w, http.StatusOK, likes)
}

// CreateFollow records the caller following another user. No self-follow
// guard exists; the storage layer takes the row as given.
func (h *SocialHandler) CreateFollow(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateFollowInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	follow := models.Follow{
		FollowerID: userID,
		FollowedID: input.FollowedID,
	}
	if err := h.db.Create(&follow).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating follow")
		return
	}

	var follower models.User
	if err := h.db.Where("user_id = ?", userID).First(&follower).Error; err == nil {
		h.notify(follow.FollowedID, "follow", &follow.FollowerID,
			fmt.Sprintf("%s started following you", follower.Username))
	}
	h.hub.Broadcast("follow/created", follow)

	utils.RespondJSON(w, http.StatusCreated, follow)
}

func (h *SocialHandler) GetFollows(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), []string{"follower_id"}, "follower_id", "asc", 10)

	query := h.db.Model(&models.Follow{})
	if followerID := r.URL.Query().Get("follower_id"); followerID != "" {
		query = query.Where("follower_id = ?", followerID)
	}
	if followedID := r.URL.Query().Get("followed_id"); followedID != "" {
		query = query.Where("followed_id = ?", followedID)
	}

	var follows []models.Follow
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&follows).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving follows")
		return
	}

	utils.RespondJSON(w, http.StatusOK, follows)
}

// CreateFavorite records a favorite. Favorites do not broadcast.
func (h *SocialHandler) CreateFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var input validation.CreateFavoriteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validation.Struct(input); details != nil {
		utils.RespondValidationError(w, details)
		return
	}

	favorite := models.Favorite{
		FavoriteID: uuid.New().String(),
		UserID:     userID,
		ImageID:    input.ImageID,
	}
	if err := h.db.Create(&favorite).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error creating favorite")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, favorite)
}

func (h *SocialHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	params := validation.ParseSearchParams(r.URL.Query(), []string{"user_id"}, "user_id", "asc", 10)

	query := h.db.Model(&models.Favorite{})
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var favorites []models.Favorite
	if err := query.Order(params.OrderClause()).
		Limit(params.Limit).Offset(params.Offset).
		Find(&favorites).Error; err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Error retrieving favorites")
		return
	}

	utils.RespondJSON(w, http.StatusOK, favorites)
}

// notifyImageOwner leaves a notification for the owner of the image,
// skipping self-notifications and images that cannot be resolved.
// messageFormat takes the actor's username and the image title.
func (h *SocialHandler) notifyImageOwner(imageID, actorID, notifType, messageFormat string) {
	var image models.Image
	if err := h.db.Where("image_id = ?", imageID).First(&image).Error; err != nil {
		return
	}
	if image.UserID == actorID {
		return
	}

	var actor models.User
	if err := h.db.Where("user_id = ?", actorID).First(&actor).Error; err != nil {
		return
	}

	h.notify(image.UserID, notifType, &image.ImageID,
		fmt.Sprintf(messageFormat, actor.Username, image.Title))
}

func (h *SocialHandler) notify(userID, notifType string, entityID *string, message string) {
	notification := models.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Type:           notifType,
		EntityID:       entityID,
		Message:        message,
	}
	if err := h.db.Create(&notification).Error; err != nil {
		log.Printf("error creating %s notification: %v", notifType, err)
	}
}
