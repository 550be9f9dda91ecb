package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/utils"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.Check).Methods("GET")
	router.HandleFunc("/health/db", h.CheckDB).Methods("GET")
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckDB(w http.ResponseWriter, r *http.Request) {
	var one int
	if err := h.db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":   "error",
			"database": "disconnected",
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": "connected",
	})
}
