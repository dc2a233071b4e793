package utils

import (
	"github.com/google/uuid"
)

// UniqueFileName derives a collision-free file name by prefixing a random
// UUID to the (possibly empty) suggested name. Timestamps are not unique
// enough under concurrent uploads; a v4 UUID collides only with negligible
// probability.
func UniqueFileName(suggested string) string {
	id := uuid.NewString()
	if suggested == "" {
		return id
	}
	return id + "-" + suggested
}
