package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/handlers"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/middleware"
)

// Handlers bundles everything the router dispatches to
type Handlers struct {
	Auth           *handlers.AuthHandler
	Health         *handlers.HealthHandler
	TravelRequests *handlers.TravelRequestHandler
	Groups         *handlers.GroupHandler
	GroupRequests  *handlers.GroupRequestHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(h Handlers, jwtCfg *config.JWTConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RequestLogger)

	// Health check routes
	r.HandleFunc("/healthz", h.Health.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.Health.LivenessCheck).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Health.ReadinessCheck).Methods(http.MethodGet)

	// API docs
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()

	// Authentication routes
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	secured := api.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(jwtCfg))

	secured.HandleFunc("/auth/profile", h.Auth.GetProfile).Methods(http.MethodGet)
	secured.HandleFunc("/auth/profile", h.Auth.UpdateProfile).Methods(http.MethodPatch)

	// Travel request routes
	secured.HandleFunc("/travel-requests", h.TravelRequests.Create).Methods(http.MethodPost)
	secured.HandleFunc("/travel-requests", h.TravelRequests.ListMine).Methods(http.MethodGet)
	secured.HandleFunc("/travel-requests/browse", h.TravelRequests.Browse).Methods(http.MethodGet)
	secured.HandleFunc("/travel-requests/{id}/matches", h.TravelRequests.Matches).Methods(http.MethodGet)

	// Group routes
	secured.HandleFunc("/groups", h.Groups.List).Methods(http.MethodGet)
	secured.HandleFunc("/groups/{id}", h.Groups.Get).Methods(http.MethodGet)
	secured.HandleFunc("/groups/{id}", h.Groups.Delete).Methods(http.MethodDelete)
	secured.HandleFunc("/groups/{id}/confirm", h.Groups.Confirm).Methods(http.MethodPost)
	secured.HandleFunc("/groups/{id}/leave", h.Groups.Leave).Methods(http.MethodPost)
	secured.HandleFunc("/groups/{id}/merge-targets", h.Groups.MergeTargets).Methods(http.MethodGet)
	secured.HandleFunc("/groups/{id}/merge", h.Groups.Merge).Methods(http.MethodPost)
	secured.HandleFunc("/groups/{id}/messages", h.Groups.Messages).Methods(http.MethodGet)
	secured.HandleFunc("/groups/{id}/messages", h.Groups.PostMessage).Methods(http.MethodPost)

	// Handshake routes
	secured.HandleFunc("/group-requests", h.GroupRequests.Send).Methods(http.MethodPost)
	secured.HandleFunc("/group-requests/incoming", h.GroupRequests.Incoming).Methods(http.MethodGet)
	secured.HandleFunc("/group-requests/outgoing", h.GroupRequests.Outgoing).Methods(http.MethodGet)
	secured.HandleFunc("/group-requests/{id}/accept", h.GroupRequests.Accept).Methods(http.MethodPost)
	secured.HandleFunc("/group-requests/{id}/reject", h.GroupRequests.Reject).Methods(http.MethodPost)
	secured.HandleFunc("/group-requests/{id}/cancel", h.GroupRequests.Cancel).Methods(http.MethodPost)

	// Root route
	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("VIT Travel Buddy backend is running."))
}
