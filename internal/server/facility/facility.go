// Package facility models the device notification service that time
// capsule alerts are handed to: permission state, channels, one-shot
// date-triggered notifications and the listeners fired when a notification
// is presented or tapped.
package facility

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotPermitted   = errors.New("notifications are not permitted")
	ErrUnknownChannel = errors.New("unknown notification channel")
	ErrInvalidTrigger = errors.New("invalid notification trigger")
	ErrNotPresented   = errors.New("notification is not presented")
)

type PermissionStatus string

const (
	StatusUndetermined PermissionStatus = "undetermined"
	StatusGranted      PermissionStatus = "granted"
	StatusDenied       PermissionStatus = "denied"
)

type Permissions struct {
	Status      PermissionStatus `json:"status"`
	CanAskAgain bool             `json:"canAskAgain"`
}

func (p Permissions) Granted() bool {
	return p.Status == StatusGranted
}

type Importance string

const (
	ImportanceDefault Importance = "default"
	ImportanceHigh    Importance = "high"
)

// Channel groups notifications that share presentation settings.
type Channel struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Importance       Importance `json:"importance"`
	VibrationPattern []int      `json:"vibrationPattern,omitempty"`
	LightColor       string     `json:"lightColor,omitempty"`
}

type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
)

type Content struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    bool              `json:"sound"`
	Priority Priority          `json:"priority"`
}

// Trigger fires a notification once at Date.
type Trigger struct {
	Date      time.Time `json:"date"`
	ChannelID string    `json:"channelId,omitempty"`
}

// Request is a scheduled, not yet presented notification.
type Request struct {
	ID        string    `json:"id"`
	Content   Content   `json:"content"`
	Trigger   Trigger   `json:"trigger"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a request that has been presented to the user.
type Notification struct {
	Request     Request   `json:"request"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// DefaultAction is the action of a plain tap on a notification.
const DefaultAction = "default"

// Response is the user's reaction to a presented notification.
type Response struct {
	Notification Notification `json:"notification"`
	ActionID     string       `json:"actionId"`
}

// Subscription detaches a listener.
type Subscription interface {
	Remove()
}

// Facility is the notification service of the device.
type Facility interface {
	GetPermissions(ctx context.Context) (Permissions, error)
	RequestPermissions(ctx context.Context) (Permissions, error)
	SetChannel(ctx context.Context, ch Channel) error

	// Schedule registers a one-shot notification and returns its id.
	Schedule(ctx context.Context, content Content, trigger Trigger) (string, error)
	// Cancel drops a scheduled notification; unknown ids are ignored.
	Cancel(ctx context.Context, id string) error
	ListScheduled(ctx context.Context) ([]Request, error)

	AddReceivedListener(fn func(Notification)) Subscription
	AddResponseListener(fn func(Response)) Subscription
}
