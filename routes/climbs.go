package routes

import (
	"encoding/json"
	"net/http"

	"cruxlog/logger"
	"cruxlog/models"
	"cruxlog/store"
)

// CreateRouteHandler logs a new climb for the authenticated user
func CreateRouteHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Create route request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var route models.Route
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Ownership comes from the token, never from the body.
	route.ID = 0
	route.UserID = user.ID
	route.VideoID = 0

	if err := store.InsertRoute(&route); err != nil {
		logger.Errorf("Failed to insert route for user %d: %v", user.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Infof("User %d logged route %d at %s", user.ID, route.ID, route.GymName)
	writeJSON(w, http.StatusOK, route)
}

// RoutesByCharacteristicHandler lists every route carrying the named
// characteristic, across all users
func RoutesByCharacteristicHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("characteristic")
	if name == "" {
		http.Error(w, "Missing characteristic", http.StatusBadRequest)
		return
	}

	items, err := store.ListRoutesByCharacteristic(name)
	if err != nil {
		logger.Errorf("Failed to list routes by characteristic %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CharacteristicsHandler lists every known characteristic
func CharacteristicsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := store.ListCharacteristics()
	if err != nil {
		logger.Errorf("Failed to list characteristics: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
