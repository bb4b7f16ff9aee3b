package store

import "time"

// Snapshot describes one persisted accumulator state.
type Snapshot struct {
	ID                 string
	CreatedAt          time.Time
	Reason             string
	TotalRows          int64
	TotalColumns       int64
	TotalCooccurrences int64
}
