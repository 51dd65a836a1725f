package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Text bounds (code units)
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxMessageLength     = 1000
)

// MaxTaskDependencies caps the declared prerequisite list of a task.
const MaxTaskDependencies = 10

// Password rules
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultDeadlineWindow is the height window for upcoming-deadline queries
// when the caller does not supply one.
const DefaultDeadlineWindow = 100
