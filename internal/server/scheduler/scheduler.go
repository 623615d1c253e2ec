// Package scheduler schedules and cancels the one-shot "time capsule
// opened" notifications on the device notification facility.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"golang.org/x/text/language"
)

// ChannelID is the facility channel time capsule alerts are posted on.
const ChannelID = "timecapsule"

// Payload keys carried in a notification's data.
const (
	DataCapsuleID = "capsuleId"
	DataType      = "type"
)

// Scheduler wraps a facility with time capsule semantics.
type Scheduler struct {
	fac  facility.Facility
	lang language.Tag
	log  logging.Logger
}

// New returns a Scheduler posting texts in lang.
func New(fac facility.Facility, lang language.Tag, log logging.Logger) *Scheduler {
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{fac: fac, lang: lang, log: log.With("module", "scheduler")}
}

// RequestPermission makes sure notifications may be posted and configures
// the time capsule channel. It reports false on denial; only facility
// failures are errors.
func (s *Scheduler) RequestPermission(ctx context.Context) (bool, error) {
	perms, err := s.fac.GetPermissions(ctx)
	if err != nil {
		return false, fmt.Errorf("get permissions: %w", err)
	}

	if !perms.Granted() {
		perms, err = s.fac.RequestPermissions(ctx)
		if err != nil {
			return false, fmt.Errorf("request permissions: %w", err)
		}
	}

	if !perms.Granted() {
		s.log.Warn(ctx, "notification permission denied", "status", perms.Status)
		return false, nil
	}

	err = s.fac.SetChannel(ctx, facility.Channel{
		ID:               ChannelID,
		Name:             channelName(s.lang),
		Importance:       facility.ImportanceHigh,
		VibrationPattern: []int{0, 250, 250, 250},
		LightColor:       "#FF231F7C",
	})
	if err != nil {
		return false, fmt.Errorf("set channel: %w", err)
	}
	return true, nil
}

// ScheduleOpenNotification posts the open alert for a capsule at openDate
// and returns the notification id. Without permission it returns "" and
// no error.
func (s *Scheduler) ScheduleOpenNotification(ctx context.Context, capsuleID string, openDate time.Time, diaryTitle string) (string, error) {
	ok, err := s.RequestPermission(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		permissionDeniedTotal.Inc()
		return "", nil
	}

	title, body := openedContent(s.lang, diaryTitle)
	id, err := s.fac.Schedule(ctx, facility.Content{
		Title: title,
		Body:  body,
		Data: map[string]string{
			DataCapsuleID: capsuleID,
			DataType:      common.TimeCapsuleNotificationType,
		},
		Sound:    true,
		Priority: facility.PriorityHigh,
	}, facility.Trigger{
		Date:      openDate,
		ChannelID: ChannelID,
	})
	if err != nil {
		return "", fmt.Errorf("schedule notification: %w", err)
	}

	scheduledTotal.Inc()
	s.log.Info(ctx, "open notification scheduled", "capsule_id", capsuleID, "notification_id", id, "open_date", openDate)
	return id, nil
}

// Cancel drops a scheduled notification. Unknown ids are not an error.
func (s *Scheduler) Cancel(ctx context.Context, notificationID string) error {
	if err := s.fac.Cancel(ctx, notificationID); err != nil {
		return fmt.Errorf("cancel notification %s: %w", notificationID, err)
	}
	cancelledTotal.Inc()
	return nil
}

func (s *Scheduler) ListScheduled(ctx context.Context) ([]facility.Request, error) {
	return s.fac.ListScheduled(ctx)
}

// IsTimeCapsule reports whether a request carries a time capsule payload.
func IsTimeCapsule(req facility.Request) bool {
	return req.Content.Data[DataType] == common.TimeCapsuleNotificationType
}

// CancelAllTimeCapsuleNotifications cancels every scheduled time capsule
// notification one by one and returns how many it cancelled.
func (s *Scheduler) CancelAllTimeCapsuleNotifications(ctx context.Context) (int, error) {
	scheduled, err := s.fac.ListScheduled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}

	n := 0
	for _, req := range scheduled {
		if !IsTimeCapsule(req) {
			continue
		}
		if err := s.Cancel(ctx, req.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Listeners holds the facility subscriptions made by SetupListeners.
type Listeners struct {
	received facility.Subscription
	response facility.Subscription
}

// Close removes both subscriptions.
func (l *Listeners) Close() {
	l.received.Remove()
	l.response.Remove()
}

// SetupListeners observes presented notifications and routes taps on time
// capsule notifications to navigate. Listeners run on the facility's
// goroutine and must return quickly.
func (s *Scheduler) SetupListeners(navigate func(capsuleID string)) *Listeners {
	ctx := context.Background()

	received := s.fac.AddReceivedListener(func(n facility.Notification) {
		s.log.Info(ctx, "notification received",
			"notification_id", n.Request.ID, "type", n.Request.Content.Data[DataType])
	})

	response := s.fac.AddResponseListener(func(r facility.Response) {
		data := r.Notification.Request.Content.Data
		s.log.Info(ctx, "notification tapped",
			"notification_id", r.Notification.Request.ID, "action", r.ActionID)

		if data[DataType] == common.TimeCapsuleNotificationType && data[DataCapsuleID] != "" && navigate != nil {
			navigate(data[DataCapsuleID])
		}
	})

	return &Listeners{received: received, response: response}
}
