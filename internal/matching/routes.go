package matching

import (
	"github.com/gorilla/mux"

	"github.com/hobbyhive/hobbyhive-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Discovery
	api.HandleFunc("/candidates", handler.GetCandidates).Methods("GET")

	// Swipes & matches
	api.HandleFunc("/swipes", handler.CreateSwipe).Methods("POST")
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")

	// Preferences
	api.HandleFunc("/preferences", handler.GetPreferences).Methods("GET")
	api.HandleFunc("/preferences", handler.UpdatePreferences).Methods("PUT")

	// Stats
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
}
