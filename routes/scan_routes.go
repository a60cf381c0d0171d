package routes

import (
	"tably_server/controllers"
	"tably_server/services"

	"github.com/gorilla/mux"
)

func RegisterScanRoutes(r *mux.Router, coordinator *services.ScanCoordinator) {
	controller := controllers.NewScanController(coordinator)

	scanRouter := r.PathPrefix("/api/scan").Subrouter()
	scanRouter.HandleFunc("/trigger", controller.HandleTriggerScan).Methods("POST") // ✅ Run one scan attempt for a pool
}
