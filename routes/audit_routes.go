package routes

import (
	"tably_server/controllers"
	"tably_server/services"

	"github.com/gorilla/mux"
)

func RegisterAuditRoutes(r *mux.Router, store *services.MatchStore) {
	controller := controllers.NewAuditController(store)

	auditRouter := r.PathPrefix("/api/scan").Subrouter()
	auditRouter.HandleFunc("/logs/{poolId}", controller.HandleGetScanLogs).Methods("GET") // ✅ Per-pool scan history
}
