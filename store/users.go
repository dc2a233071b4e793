package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"cruxlog/models"

	pebble "github.com/cockroachdb/pebble"
)

// CreateUser inserts a new user and returns it with its id assigned.
// Fails if the username is already taken.
func CreateUser(username, hashedPassword string) (*models.User, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	existing, err := GetUserByName(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username %s already taken", username)
	}

	id, err := nextID("users")
	if err != nil {
		return nil, err
	}

	user := &models.User{ID: id, Username: username, HashedPassword: hashedPassword}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user record: %w", err)
	}

	if err := db.Set(recordKey("user", id), data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to store user record: %w", err)
	}
	// Username index for login lookups
	if err := db.Set([]byte("username:"+username), []byte(strconv.FormatInt(id, 10)), pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to store username index: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user record by id. Not found is not an error.
func GetUserByID(id int64) (*models.User, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	data, closer, err := db.Get(recordKey("user", id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	defer closer.Close()

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user record: %w", err)
	}
	return &user, nil
}

// GetUserByName retrieves a user record through the username index.
// Not found is not an error.
func GetUserByName(username string) (*models.User, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	data, closer, err := db.Get([]byte("username:" + username))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get username index: %w", err)
	}
	id, parseErr := strconv.ParseInt(string(data), 10, 64)
	closer.Close()
	if parseErr != nil {
		return nil, fmt.Errorf("corrupt username index for %s: %w", username, parseErr)
	}

	return GetUserByID(id)
}
