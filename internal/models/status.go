package models

// Status is the lifecycle state shared by projects, milestones and tasks.
// Every entity starts PENDING. Any status may replace any other; the one
// exception is the COMPLETED gate on tasks with dependencies, which is
// enforced by the task service, not here.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusDelayed    Status = "DELAYED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is one of the five defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}
