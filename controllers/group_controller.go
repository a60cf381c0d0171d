package controllers

import (
	"encoding/json"
	"net/http"

	"tably_server/services"

	"github.com/gorilla/mux"
)

// GroupController struct
type GroupController struct {
	Store *services.MatchStore
}

// NewGroupController initializes the controller
func NewGroupController(store *services.MatchStore) *GroupController {
	return &GroupController{Store: store}
}

// HandleGetGroups returns a pool's committed groups
func (c *GroupController) HandleGetGroups(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["poolId"]
	if poolID == "" {
		http.Error(w, `{"error": "poolId is required"}`, http.StatusBadRequest)
		return
	}

	groups, err := c.Store.ListGroupsByPool(r.Context(), poolID)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch groups"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}
