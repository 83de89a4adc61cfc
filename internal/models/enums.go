package models

import "fmt"

// Priority is the closed set of priority tiers used by notifications and
// farm works. Unrecognized values are rejected at parse time rather than
// silently falling through string comparisons.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// WorkState is the closed set of farm work lifecycle states.
type WorkState string

const (
	WorkStateCreated    WorkState = "created"
	WorkStateAssigned   WorkState = "assigned"
	WorkStateInProgress WorkState = "in_progress"
	WorkStateCompleted  WorkState = "completed"
	WorkStateCanceled   WorkState = "canceled"
	WorkStatePending    WorkState = "pending"
	WorkStatePostponed  WorkState = "postponed"
)

// ParseWorkState validates a work state string.
func ParseWorkState(s string) (WorkState, error) {
	switch WorkState(s) {
	case WorkStateCreated, WorkStateAssigned, WorkStateInProgress,
		WorkStateCompleted, WorkStateCanceled, WorkStatePending, WorkStatePostponed:
		return WorkState(s), nil
	default:
		return "", fmt.Errorf("unknown work state %q", s)
	}
}

// IsTerminal reports whether the state ends the work lifecycle.
func (s WorkState) IsTerminal() bool {
	return s == WorkStateCompleted || s == WorkStateCanceled
}

// NotificationStatus is the closed set of notification lifecycle states.
type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "pending"
	NotificationStatusInProgress NotificationStatus = "in_progress"
	NotificationStatusCompleted  NotificationStatus = "completed"
	NotificationStatusDismissed  NotificationStatus = "dismissed"
)

// ParseNotificationStatus validates a notification status string.
func ParseNotificationStatus(s string) (NotificationStatus, error) {
	switch NotificationStatus(s) {
	case NotificationStatusPending, NotificationStatusInProgress,
		NotificationStatusCompleted, NotificationStatusDismissed:
		return NotificationStatus(s), nil
	default:
		return "", fmt.Errorf("unknown notification status %q", s)
	}
}

// Role is the closed set of user roles. Rank encodes the hierarchy used by
// the authorization middleware.
type Role string

const (
	RoleUser        Role = "user"
	RoleContributor Role = "contributor"
	RoleAdmin       Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleContributor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Rank returns the numeric position of the role in the hierarchy.
// Unknown roles rank below every real role.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleContributor:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
