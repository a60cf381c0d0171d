package routes

import (
	"tably_server/controllers"
	"tably_server/services"

	"github.com/gorilla/mux"
)

func RegisterGroupRoutes(r *mux.Router, store *services.MatchStore) {
	controller := controllers.NewGroupController(store)

	groupRouter := r.PathPrefix("/api/groups").Subrouter()
	groupRouter.HandleFunc("/{poolId}", controller.HandleGetGroups).Methods("GET") // ✅ Committed groups for a pool
}
