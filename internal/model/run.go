package model

import "time"

// RunStatus records how a resolution run ended.
type RunStatus string

// Run status constants.
const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run is the ledger entry for one pass of the resolution pipeline.
type Run struct {
	StartedAt        time.Time
	FinishedAt       time.Time
	ID               string
	InputPath        string
	Encoding         string
	Status           RunStatus
	Error            string
	Total            int
	Resolved         int
	Unresolved       int
	AutoClosed       int
	NewPatterns      int
	ClassifierErrors int
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Archive records a processed file moved into the upload folder.
type Archive struct {
	ArchivedAt  time.Time
	ID          string
	SourcePath  string
	Destination string
	Renamed     bool
	Delivered   bool
}
