package models

// Job is the ephemeral, in-memory record of a pending completion
// notification for one uploaded clip. It is never persisted: jobs live in
// the registry from ingest until a notification loop takes them, and are
// lost on process restart. At most one Job exists per VideoID.
type Job struct {
	UserID    int64
	VideoID   int64
	RouteID   int64
	Completed bool
}
