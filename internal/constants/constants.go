package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Pagination limits.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Password policy.
const (
	MinPasswordLength = 8
)

// Harvest scan behavior.
const (
	// HarvestNoticeDays is how many days before the harvest date the scan
	// starts creating/escalating notifications.
	HarvestNoticeDays = 3

	// HarvestWorkWindowDays is the window used by the duplicate guard when
	// creating a harvest farm work for a land.
	HarvestWorkWindowDays = 30
)

// Error log rotation settings (newline-delimited JSON).
const (
	ErrorLogFileName   = "error.log"
	ErrorLogMaxSizeMB  = 5
	ErrorLogMaxBackups = 10
)
