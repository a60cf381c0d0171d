package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tably_server/models"
	"tably_server/services"
)

// ScanController struct
type ScanController struct {
	Coordinator *services.ScanCoordinator
}

// NewScanController initializes the controller
func NewScanController(coordinator *services.ScanCoordinator) *ScanController {
	return &ScanController{Coordinator: coordinator}
}

// HandleTriggerScan runs one scan attempt for a pool and returns the scan result
func (c *ScanController) HandleTriggerScan(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PoolID      string `json:"poolId"`
		ScanType    string `json:"scanType"`
		TriggeredBy string `json:"triggeredBy"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.PoolID == "" {
		http.Error(w, `{"error": "poolId is required"}`, http.StatusBadRequest)
		return
	}

	scanType := request.ScanType
	if scanType == "" {
		scanType = models.ScanTypeManual
	}
	switch scanType {
	case models.ScanTypeRealtime, models.ScanTypeScheduled, models.ScanTypeManual:
	default:
		http.Error(w, `{"error": "Invalid scanType"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🔍 Scan trigger for pool %s (%s, by %s)", request.PoolID, scanType, request.TriggeredBy)

	// Realtime triggers fire once per new registration and must not stack up:
	// they go through the coalescing path and the result lands in the scan log.
	if scanType == models.ScanTypeRealtime {
		c.Coordinator.RequestScan(request.PoolID, request.TriggeredBy)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"poolId": request.PoolID,
			"status": "accepted",
		})
		return
	}

	result, err := c.Coordinator.ScanPoolAndMatch(r.Context(), request.PoolID, scanType, request.TriggeredBy)
	if err != nil {
		log.Printf("❌ Scan for pool %s failed: %v", request.PoolID, err)
		http.Error(w, `{"error": "Scan failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
