package store

import (
	"encoding/json"
	"fmt"

	"cruxlog/models"

	pebble "github.com/cockroachdb/pebble"
)

// UpsertCharacteristics stores any of the named characteristics that do not
// exist yet. Names already present keep their ids; the operation is
// idempotent.
func UpsertCharacteristics(names []string) error {
	if db == nil {
		return errNotInitialized()
	}

	for _, name := range names {
		if name == "" {
			continue
		}
		key := []byte("char:" + name)
		_, closer, err := db.Get(key)
		if err == nil {
			closer.Close()
			continue
		}
		if err != pebble.ErrNotFound {
			return fmt.Errorf("failed to check characteristic %s: %w", name, err)
		}

		id, err := nextID("characteristics")
		if err != nil {
			return err
		}
		data, err := json.Marshal(models.Characteristic{ID: id, Name: name})
		if err != nil {
			return fmt.Errorf("failed to marshal characteristic: %w", err)
		}
		if err := db.Set(key, data, pebble.Sync); err != nil {
			return fmt.Errorf("failed to store characteristic %s: %w", name, err)
		}
	}
	return nil
}

// ListCharacteristics returns every stored characteristic
func ListCharacteristics() ([]models.Characteristic, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	iter, err := db.NewIter(kindBounds("char"))
	if err != nil {
		return nil, fmt.Errorf("failed to create characteristic iterator: %w", err)
	}
	defer iter.Close()

	var characteristics []models.Characteristic
	for iter.First(); iter.Valid(); iter.Next() {
		var c models.Characteristic
		if err := json.Unmarshal(iter.Value(), &c); err != nil {
			continue // Skip invalid records
		}
		characteristics = append(characteristics, c)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("characteristic iteration error: %w", err)
	}
	return characteristics, nil
}
