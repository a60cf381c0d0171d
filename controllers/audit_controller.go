package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tably_server/services"

	"github.com/gorilla/mux"
)

// AuditController exposes the per-pool scan history for operational dashboards
type AuditController struct {
	Store *services.MatchStore
}

// NewAuditController initializes the controller
func NewAuditController(store *services.MatchStore) *AuditController {
	return &AuditController{Store: store}
}

// HandleGetScanLogs returns a pool's scan log rows, newest first
func (c *AuditController) HandleGetScanLogs(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]
	if poolID == "" {
		http.Error(w, `{"error": "poolId is required"}`, http.StatusBadRequest)
		return
	}

	limit := int32(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, `{"error": "Invalid limit"}`, http.StatusBadRequest)
			return
		}
		limit = int32(parsed)
	}

	logs, err := c.Store.ListScanLogs(r.Context(), poolID, limit)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch scan logs"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
