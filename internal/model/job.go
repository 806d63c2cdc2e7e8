package model

import "time"

const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobError     = "error"
)

type FetchJob struct {
	ID             string
	OrganizationID string
	Status         string
	CurrentStep    string
	Processed      int
	Total          int
	ErrorMessage   string
	EmailSent      bool
	StartedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// CanTransition reports whether a job status change is allowed. Status only
// moves forward: pending -> running -> completed, with error reachable from
// any non-terminal state. Terminal states never change.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case JobPending:
		return to == JobRunning || to == JobCompleted || to == JobError
	case JobRunning:
		return to == JobCompleted || to == JobError
	default:
		return false
	}
}

// ClampProgress keeps processed within [0, total] once total is known.
func ClampProgress(processed, total int) int {
	if processed < 0 {
		return 0
	}
	if total > 0 && processed > total {
		return total
	}
	return processed
}
