package store

import (
	"encoding/json"
	"fmt"
	"time"

	"cruxlog/models"

	pebble "github.com/cockroachdb/pebble"
)

// AppendHistory stores the durable trace of one delivered completion
// notification. History is append-only; records are never updated or
// deleted by the application.
func AppendHistory(record *models.JobHistoryRecord) error {
	if db == nil {
		return errNotInitialized()
	}

	id, err := nextID("history")
	if err != nil {
		return err
	}
	record.ID = id
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}
	return db.Set(recordKey("history", id), data, pebble.Sync)
}

// ListHistory returns all job history records in insertion order
func ListHistory() ([]models.JobHistoryRecord, error) {
	return listHistory(func(*models.JobHistoryRecord) bool { return true })
}

// ListHistoryByUser returns the job history records belonging to one user
func ListHistoryByUser(userID int64) ([]models.JobHistoryRecord, error) {
	return listHistory(func(r *models.JobHistoryRecord) bool {
		return r.UserID == userID
	})
}

func listHistory(match func(*models.JobHistoryRecord) bool) ([]models.JobHistoryRecord, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	iter, err := db.NewIter(kindBounds("history"))
	if err != nil {
		return nil, fmt.Errorf("failed to create history iterator: %w", err)
	}
	defer iter.Close()

	var records []models.JobHistoryRecord
	for iter.First(); iter.Valid(); iter.Next() {
		var record models.JobHistoryRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		if match(&record) {
			records = append(records, record)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("history iteration error: %w", err)
	}
	return records, nil
}
