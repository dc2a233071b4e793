package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"cruxlog/auth"
	"cruxlog/logger"
	"cruxlog/store"
)

// registerRequest is the body of a registration call
type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler creates a new user account
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Register request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := auth.ValidateUsername(req.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("Failed to hash password: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := store.CreateUser(req.Username, hash); err != nil {
		if strings.Contains(err.Error(), "already taken") {
			http.Error(w, "Username already taken", http.StatusBadRequest)
			return
		}
		logger.Errorf("Failed to create user: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Infof("Registered new user: %s", req.Username)
	writeJSON(w, http.StatusOK, StatusDetail{StatusCode: http.StatusOK, Detail: "User creation successful"})
}
