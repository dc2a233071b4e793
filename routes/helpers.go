package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"cruxlog/auth"
	"cruxlog/logger"
	"cruxlog/models"
)

// StatusDetail is the generic status payload for mutations
type StatusDetail struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

// writeJSON encodes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// requireUser resolves the authenticated user or writes a 401 and returns
// false. Handlers call this first and bail out on failure.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, err := auth.CurrentUser(r)
	if err != nil {
		logger.Debugf("Unauthorized request to %s: %v", r.URL.Path, err)
		if errors.Is(err, auth.ErrNoToken) || errors.Is(err, auth.ErrTokenRevoked) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		} else {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
		}
		return nil, false
	}
	return user, true
}
