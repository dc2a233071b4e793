package routes

import (
	"net/http"

	"cruxlog/logger"
	"cruxlog/store"
)

// HistoryHandler lists the caller's delivered completion notifications
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	records, err := store.ListHistoryByUser(user.ID)
	if err != nil {
		logger.Errorf("Failed to list history for user %d: %v", user.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
