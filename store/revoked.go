package store

import (
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// RevokeToken records a token as revoked. Revoked tokens are refused by the
// authentication middleware until they expire out of relevance.
func RevokeToken(token string) error {
	if db == nil {
		return errNotInitialized()
	}
	value := []byte(time.Now().Format(time.RFC3339))
	return db.Set([]byte("revoked:"+token), value, pebble.Sync)
}

// IsTokenRevoked reports whether the token has been revoked
func IsTokenRevoked(token string) (bool, error) {
	if db == nil {
		return false, errNotInitialized()
	}

	_, closer, err := db.Get([]byte("revoked:" + token))
	if err != nil {
		if err == pebble.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	closer.Close()
	return true, nil
}
