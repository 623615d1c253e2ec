package models

import "time"

// CapsuleState is the lifecycle position of a time capsule.
type CapsuleState string

const (
	CapsulePending   CapsuleState = "pending"
	CapsuleScheduled CapsuleState = "scheduled"
	CapsuleOpened    CapsuleState = "opened"
)

// TimeCapsule hides a diary entry until OpenDate.
type TimeCapsule struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	DiaryID  string    `json:"diaryId"`
	OpenDate time.Time `json:"openDate"`

	// IsOpened only ever goes from false to true.
	IsOpened bool `json:"isOpened"`

	// NotificationScheduled caches whether the facility holds a pending
	// notification for this capsule; NotificationID is that notification.
	NotificationScheduled bool   `json:"notificationScheduled"`
	NotificationID        string `json:"notificationId,omitempty"`

	// PendingSchedule is the create intent: set before scheduling, cleared
	// once the outcome is recorded. A set flag after a crash means the
	// capsule needs reconciling.
	PendingSchedule bool `json:"pendingSchedule"`

	CreatedAt time.Time `json:"createdAt"`
}

// State derives the lifecycle state from the stored flags.
func (c *TimeCapsule) State() CapsuleState {
	switch {
	case c.IsOpened:
		return CapsuleOpened
	case c.NotificationScheduled:
		return CapsuleScheduled
	default:
		return CapsulePending
	}
}

// Openable reports whether the capsule may be opened at now.
func (c *TimeCapsule) Openable(now time.Time) bool {
	return !c.IsOpened && !now.Before(c.OpenDate)
}
