package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/config"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repotest"
	"github.com/ardenspace/space3-your-journey/internal/server/scheduler"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *sql.DB
	rm    *repomanager.SQLRepositoryManager
	clock *repotest.Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := repotest.NewClock(t0)
	return &testEnv{
		db:    repotest.OpenSQLite(t),
		rm:    repomanager.NewSQLRepositoryManager(dbx.DialectSQLite, clock.Now),
		clock: clock,
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 24 * time.Hour
	return cfg
}

func (e *testEnv) users() *UserService {
	s := NewUserService(e.db, e.rm, testConfig())
	s.hashCost = bcrypt.MinCost
	s.now = e.clock.Now
	return s
}

func (e *testEnv) diaries() *DiaryService {
	return NewDiaryService(e.db, e.rm)
}

func (e *testEnv) capsules(n Notifier) *TimeCapsuleService {
	s := NewTimeCapsuleService(e.db, e.rm, n, nil)
	s.now = e.clock.Now
	return s
}

// fakeNotifier keeps scheduled requests in memory.
type fakeNotifier struct {
	mu          sync.Mutex
	denied      bool
	scheduleErr error
	seq         int
	pending     []facility.Request
	cancelled   []string
	titles      map[string]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{titles: make(map[string]string)}
}

func (f *fakeNotifier) ScheduleOpenNotification(_ context.Context, capsuleID string, openDate time.Time, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	if f.denied {
		return "", nil
	}
	f.seq++
	id := fmt.Sprintf("notif-%d", f.seq)
	f.titles[capsuleID] = title
	f.pending = append(f.pending, facility.Request{
		ID: id,
		Content: facility.Content{Data: map[string]string{
			scheduler.DataCapsuleID: capsuleID,
			scheduler.DataType:      common.TimeCapsuleNotificationType,
		}},
		Trigger: facility.Trigger{Date: openDate},
	})
	return id, nil
}

// add plants a request as if scheduled by someone else.
func (f *fakeNotifier) add(req facility.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, req)
}

// drop forgets a request without recording a cancel, like a fired or
// lost notification.
func (f *fakeNotifier) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(id)
}

func (f *fakeNotifier) remove(id string) {
	kept := f.pending[:0]
	for _, r := range f.pending {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.pending = kept
}

func (f *fakeNotifier) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	f.remove(id)
	return nil
}

func (f *fakeNotifier) ListScheduled(context.Context) ([]facility.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]facility.Request(nil), f.pending...), nil
}

func (f *fakeNotifier) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.pending))
	for _, r := range f.pending {
		out = append(out, r.ID)
	}
	return out
}
