package enums

import "fmt"

// NotificationStatus models the delivery lifecycle. Status only advances
// forward: pending notifications become read or failed, never pending again.
// The mobile path is client-pull, so "sent" is reserved for push transports.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusRead    NotificationStatus = "read"
	NotificationStatusFailed  NotificationStatus = "failed"
)

var validNotificationStatuses = []NotificationStatus{
	NotificationStatusPending,
	NotificationStatusSent,
	NotificationStatusRead,
	NotificationStatusFailed,
}

func (s NotificationStatus) IsValid() bool {
	for _, candidate := range validNotificationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseNotificationStatus converts raw strings into NotificationStatus.
func ParseNotificationStatus(value string) (NotificationStatus, error) {
	for _, candidate := range validNotificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification status %q", value)
}

// Priority is a delivery hint carried through to the client.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
}

func (p Priority) IsValid() bool {
	for _, candidate := range validPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriority converts raw strings into Priority.
func ParsePriority(value string) (Priority, error) {
	for _, candidate := range validPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q", value)
}
