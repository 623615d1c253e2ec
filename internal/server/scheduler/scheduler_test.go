package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// fakeFacility records calls and keeps requests in memory.
type fakeFacility struct {
	status      facility.PermissionStatus
	grant       bool
	requested   int
	channels    []facility.Channel
	scheduled   []facility.Request
	cancelled   []string
	scheduleErr error
	cancelErr   error
	received    []func(facility.Notification)
	responses   []func(facility.Response)
	removed     int
	nextID      int
}

func newFake(grant bool) *fakeFacility {
	return &fakeFacility{status: facility.StatusUndetermined, grant: grant}
}

func (f *fakeFacility) GetPermissions(context.Context) (facility.Permissions, error) {
	return facility.Permissions{Status: f.status}, nil
}

func (f *fakeFacility) RequestPermissions(context.Context) (facility.Permissions, error) {
	f.requested++
	if f.status == facility.StatusUndetermined {
		f.status = facility.StatusDenied
		if f.grant {
			f.status = facility.StatusGranted
		}
	}
	return facility.Permissions{Status: f.status}, nil
}

func (f *fakeFacility) SetChannel(_ context.Context, ch facility.Channel) error {
	f.channels = append(f.channels, ch)
	return nil
}

func (f *fakeFacility) Schedule(_ context.Context, c facility.Content, tr facility.Trigger) (string, error) {
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.nextID++
	id := "n-" + string(rune('0'+f.nextID))
	f.scheduled = append(f.scheduled, facility.Request{ID: id, Content: c, Trigger: tr})
	return id, nil
}

func (f *fakeFacility) Cancel(_ context.Context, id string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	kept := f.scheduled[:0]
	for _, r := range f.scheduled {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.scheduled = kept
	return nil
}

func (f *fakeFacility) ListScheduled(context.Context) ([]facility.Request, error) {
	return append([]facility.Request(nil), f.scheduled...), nil
}

type fakeSub struct{ f *fakeFacility }

func (s fakeSub) Remove() { s.f.removed++ }

func (f *fakeFacility) AddReceivedListener(fn func(facility.Notification)) facility.Subscription {
	f.received = append(f.received, fn)
	return fakeSub{f}
}

func (f *fakeFacility) AddResponseListener(fn func(facility.Response)) facility.Subscription {
	f.responses = append(f.responses, fn)
	return fakeSub{f}
}

var openDate = time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRequestPermission_GrantConfiguresChannel(t *testing.T) {
	f := newFake(true)
	s := New(f, language.English, nil)

	ok, err := s.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, f.channels, 1)

	ch := f.channels[0]
	assert.Equal(t, ChannelID, ch.ID)
	assert.Equal(t, facility.ImportanceHigh, ch.Importance)
	assert.Equal(t, []int{0, 250, 250, 250}, ch.VibrationPattern)
	assert.Equal(t, "#FF231F7C", ch.LightColor)
	assert.Equal(t, "Time capsule alerts", ch.Name)

	// already granted: no second request
	_, err = s.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.requested)
}

func TestScheduleOpenNotification_DeniedReturnsEmpty(t *testing.T) {
	f := newFake(false)
	s := New(f, language.English, nil)

	id, err := s.ScheduleOpenNotification(context.Background(), "tc-1", openDate, "trip")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, f.scheduled)
	assert.Empty(t, f.channels)
}

func TestScheduleOpenNotification_Content(t *testing.T) {
	f := newFake(true)
	s := New(f, language.English, nil)

	id, err := s.ScheduleOpenNotification(context.Background(), "tc-1", openDate, "Summer trip")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, f.scheduled, 1)

	req := f.scheduled[0]
	assert.Equal(t, "Your time capsule has opened! 🎁", req.Content.Title)
	assert.Equal(t, `The diary "Summer trip" can be read now.`, req.Content.Body)
	assert.Equal(t, map[string]string{"capsuleId": "tc-1", "type": "timecapsule"}, req.Content.Data)
	assert.True(t, req.Content.Sound)
	assert.Equal(t, facility.PriorityHigh, req.Content.Priority)
	assert.Equal(t, openDate, req.Trigger.Date)
	assert.Equal(t, ChannelID, req.Trigger.ChannelID)
}

func TestScheduleOpenNotification_KoreanTexts(t *testing.T) {
	f := newFake(true)
	s := New(f, language.Korean, nil)

	_, err := s.ScheduleOpenNotification(context.Background(), "tc-1", openDate, "")
	require.NoError(t, err)
	_, err = s.ScheduleOpenNotification(context.Background(), "tc-2", openDate, "여행")
	require.NoError(t, err)

	assert.Equal(t, "타임캡슐이 개봉되었습니다! 🎁", f.scheduled[0].Content.Title)
	assert.Equal(t, "당신의 추억을 다시 만나보세요.", f.scheduled[0].Content.Body)
	assert.Equal(t, `"여행" 일기를 이제 읽을 수 있습니다.`, f.scheduled[1].Content.Body)
	assert.Equal(t, "타임캡슐 알림", f.channels[0].Name)
}

func TestScheduleOpenNotification_FacilityError(t *testing.T) {
	f := newFake(true)
	f.scheduleErr = errors.New("full")
	s := New(f, language.English, nil)

	_, err := s.ScheduleOpenNotification(context.Background(), "tc-1", openDate, "")
	assert.ErrorContains(t, err, "full")
}

func TestCancelAllTimeCapsuleNotifications_Idempotent(t *testing.T) {
	f := newFake(true)
	s := New(f, language.English, nil)
	ctx := context.Background()

	_, err := s.ScheduleOpenNotification(ctx, "tc-1", openDate, "")
	require.NoError(t, err)
	_, err = s.ScheduleOpenNotification(ctx, "tc-2", openDate, "")
	require.NoError(t, err)
	_, err = f.Schedule(ctx, facility.Content{Data: map[string]string{"type": "reminder"}}, facility.Trigger{Date: openDate})
	require.NoError(t, err)

	n, err := s.CancelAllTimeCapsuleNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := s.ListScheduled(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.False(t, IsTimeCapsule(left[0]))

	n, err = s.CancelAllTimeCapsuleNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCancel_PropagatesError(t *testing.T) {
	f := newFake(true)
	f.cancelErr = errors.New("gone")
	s := New(f, language.English, nil)

	assert.ErrorContains(t, s.Cancel(context.Background(), "n-1"), "gone")
}

func TestSetupListeners_NavigatesOnTimeCapsuleTap(t *testing.T) {
	f := newFake(true)
	s := New(f, language.English, nil)

	var navigated []string
	l := s.SetupListeners(func(id string) { navigated = append(navigated, id) })
	require.Len(t, f.received, 1)
	require.Len(t, f.responses, 1)

	f.received[0](facility.Notification{Request: facility.Request{ID: "n-1"}})

	tap := func(data map[string]string) {
		f.responses[0](facility.Response{
			Notification: facility.Notification{Request: facility.Request{Content: facility.Content{Data: data}}},
			ActionID:     facility.DefaultAction,
		})
	}
	tap(map[string]string{"type": "timecapsule", "capsuleId": "tc-9"})
	tap(map[string]string{"type": "reminder", "capsuleId": "tc-8"})
	tap(map[string]string{"type": "timecapsule"})

	assert.Equal(t, []string{"tc-9"}, navigated)

	l.Close()
	assert.Equal(t, 2, f.removed)
}
