package models

import "time"

// User is a registered account. The bcrypt hash never leaves the store
// layer in API responses.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"`
}

// Characteristic is a reusable route attribute ("crimpy", "overhang", ...)
// shared across routes and upserted by name.
type Characteristic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Route is one logged climb. VideoID is zero until a clip has been
// ingested for it.
type Route struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	GymName         string    `json:"gym_name"`
	Date            time.Time `json:"date"`
	Difficulty      string    `json:"difficulty"`
	Characteristics []string  `json:"characteristics"`
	Attempts        int       `json:"attempts"`
	Sent            bool      `json:"sent"`
	Notes           string    `json:"notes"`
	VideoID         int64     `json:"video_id,omitempty"`
}

// Video is the persisted record of an uploaded clip. Path points at the
// compressed output location from the moment the record is created, before
// the transcode has run. Completed and Failed are flipped exactly once by
// the compression worker and are never both true.
type Video struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	RouteID   int64  `json:"route_id,omitempty"`
	Completed bool   `json:"completed"`
	Failed    bool   `json:"failed"`
}

// JobHistoryRecord is the durable, append-only trace of one delivered
// completion notification.
type JobHistoryRecord struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int64     `json:"user_id"`
	VideoID   int64     `json:"video_id"`
	RouteID   int64     `json:"route_id"`
	Completed bool      `json:"completed"`
}
