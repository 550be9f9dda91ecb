package api

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/pixhaven/pixhaven-server/cmd/utils"
	"github.com/pixhaven/pixhaven-server/service"
	"github.com/pixhaven/pixhaven-server/service/collection"
	"github.com/pixhaven/pixhaven-server/service/health"
	"github.com/pixhaven/pixhaven-server/service/image"
	"github.com/pixhaven/pixhaven-server/service/notification"
	"github.com/pixhaven/pixhaven-server/service/showcase"
	"github.com/pixhaven/pixhaven-server/service/social"
	"github.com/pixhaven/pixhaven-server/service/user"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewAPIServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()

	// The timeout middleware buffers responses, which breaks the
	// websocket upgrade, so only the API subrouter gets it.
	subrouter := router.PathPrefix("/api").Subrouter()
	subrouter.Use(utils.Timeout(30 * time.Second))

	wsHandler := service.NewWebSocketHandler(s.db)

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	imageHandler := image.NewImageHandler(s.db)
	imageHandler.RegisterRoutes(subrouter)

	socialHandler := social.NewSocialHandler(s.db, wsHandler.Hub())
	socialHandler.RegisterRoutes(subrouter)

	collectionHandler := collection.NewCollectionHandler(s.db)
	collectionHandler.RegisterRoutes(subrouter)

	showcaseHandler := showcase.NewShowcaseHandler(s.db)
	showcaseHandler.RegisterRoutes(subrouter)

	notificationHandler := notification.NewNotificationHandler(s.db)
	notificationHandler.RegisterRoutes(subrouter)

	healthHandler := health.NewHealthHandler(s.db)
	healthHandler.RegisterRoutes(subrouter)

	wsHandler.RegisterRoutes(router)

	router.PathPrefix("/storage/").Handler(
		http.StripPrefix("/storage/", http.FileServer(http.Dir(utils.StoragePath))))

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)

	log.Println("Server listening on", s.address)
	return http.ListenAndServe(s.address, corsHandler(router))
}
