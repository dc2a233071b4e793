package routes

import (
	"errors"
	"net/http"

	"cruxlog/auth"
	"cruxlog/logger"
)

// tokenResponse mirrors the OAuth2 password flow response shape
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenHandler exchanges form credentials for an access token
func TokenHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Token request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := auth.Login(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCreds) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
			return
		}
		logger.Errorf("Login failed for %s: %v", username, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// LogoutHandler revokes the presented token
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Only an authenticated caller may revoke its own token.
	if _, ok := requireUser(w, r); !ok {
		return
	}

	if err := auth.Revoke(r); err != nil {
		logger.Errorf("Failed to revoke token: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, StatusDetail{StatusCode: http.StatusOK, Detail: "Token revoked"})
}
