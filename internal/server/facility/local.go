package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/peterbourgon/diskv/v3"
)

const pendingPrefix = "pending-"

// Options configure a Local facility.
type Options struct {
	// Dir persists pending requests across restarts. Wiping it models the
	// device dropping scheduled notifications.
	Dir string
	// Grant is the answer given to the first permission request.
	Grant  bool
	Sender Sender
	// Tick is how often the loop looks for due requests.
	Tick time.Duration
	// TrayTTL is how long a presented notification stays tappable.
	TrayTTL time.Duration
	Now     func() time.Time
	Log     logging.Logger
}

// Local is an in-process Facility. Scheduled requests live in diskv; the
// loop started by Run fires them through a Sender into a tray of presented
// notifications.
type Local struct {
	mu       sync.Mutex
	store    *diskv.Diskv
	pending  map[string]Request
	status   PermissionStatus
	grant    bool
	channels map[string]Channel

	tray   *cache.Cache
	sender Sender

	received  map[int]func(Notification)
	responses map[int]func(Response)
	nextSub   int

	tick time.Duration
	wake chan struct{}
	now  func() time.Time
	log  logging.Logger
}

var _ Facility = (*Local)(nil)

// NewLocal opens the pending store under opts.Dir and loads what it holds.
func NewLocal(ctx context.Context, opts Options) (*Local, error) {
	if opts.Sender == nil {
		return nil, fmt.Errorf("facility: sender is required")
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.TrayTTL <= 0 {
		opts.TrayTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}

	l := &Local{
		store: diskv.New(diskv.Options{
			BasePath:     opts.Dir,
			CacheSizeMax: 1024 * 1024,
			PathPerm:     0o700,
			FilePerm:     0o600,
		}),
		pending:  make(map[string]Request),
		status:   StatusUndetermined,
		grant:    opts.Grant,
		channels: make(map[string]Channel),
		// no janitor goroutine; expired entries are dropped by the loop
		tray:      cache.New(opts.TrayTTL, 0),
		sender:    opts.Sender,
		received:  make(map[int]func(Notification)),
		responses: make(map[int]func(Response)),
		tick:      opts.Tick,
		wake:      make(chan struct{}, 1),
		now:       opts.Now,
		log:       opts.Log.With("module", "facility"),
	}

	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Local) load(ctx context.Context) error {
	for key := range l.store.KeysPrefix(pendingPrefix, nil) {
		raw, err := l.store.Read(key)
		if err != nil {
			return fmt.Errorf("facility: read %s: %w", key, err)
		}
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			l.log.Warn(ctx, "dropping unreadable request", "key", key, "error", err)
			_ = l.store.Erase(key)
			continue
		}
		l.pending[req.ID] = req
	}
	pendingRequests.Set(float64(len(l.pending)))
	l.log.Info(ctx, "pending notifications loaded", "count", len(l.pending))
	return nil
}

func (l *Local) GetPermissions(_ context.Context) (Permissions, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.permissions(), nil
}

func (l *Local) permissions() Permissions {
	return Permissions{Status: l.status, CanAskAgain: l.status == StatusUndetermined}
}

// RequestPermissions answers an undetermined status with the configured
// policy. A decided status is returned unchanged.
func (l *Local) RequestPermissions(ctx context.Context) (Permissions, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == StatusUndetermined {
		l.status = StatusDenied
		if l.grant {
			l.status = StatusGranted
		}
		l.log.Info(ctx, "notification permission decided", "status", l.status)
	}
	return l.permissions(), nil
}

func (l *Local) SetChannel(_ context.Context, ch Channel) error {
	if ch.ID == "" {
		return fmt.Errorf("facility: channel id is empty")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channels[ch.ID] = ch
	return nil
}

// Channel returns a configured channel.
func (l *Local) Channel(id string) (Channel, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.channels[id]
	return ch, ok
}

func (l *Local) Schedule(ctx context.Context, content Content, trigger Trigger) (string, error) {
	if trigger.Date.IsZero() {
		return "", ErrInvalidTrigger
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status != StatusGranted {
		return "", ErrNotPermitted
	}
	if trigger.ChannelID != "" {
		if _, ok := l.channels[trigger.ChannelID]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownChannel, trigger.ChannelID)
		}
	}

	req := Request{
		ID:        uuid.NewString(),
		Content:   content,
		Trigger:   Trigger{Date: trigger.Date.UTC(), ChannelID: trigger.ChannelID},
		CreatedAt: l.now().UTC(),
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	if err := l.store.Write(pendingPrefix+req.ID, raw); err != nil {
		return "", fmt.Errorf("facility: persist request: %w", err)
	}
	l.pending[req.ID] = req
	pendingRequests.Set(float64(len(l.pending)))

	l.log.Debug(ctx, "notification scheduled", "id", req.ID, "date", req.Trigger.Date)
	l.poke()
	return req.ID, nil
}

func (l *Local) Cancel(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pending[id]; !ok {
		return nil
	}
	if err := l.store.Erase(pendingPrefix + id); err != nil && !isNotExist(err) {
		return fmt.Errorf("facility: erase request: %w", err)
	}
	delete(l.pending, id)
	pendingRequests.Set(float64(len(l.pending)))

	l.log.Debug(ctx, "notification cancelled", "id", id)
	return nil
}

// ListScheduled returns pending requests, soonest first.
func (l *Local) ListScheduled(_ context.Context) ([]Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Request, 0, len(l.pending))
	for _, req := range l.pending {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trigger.Date.Equal(out[j].Trigger.Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Trigger.Date.Before(out[j].Trigger.Date)
	})
	return out, nil
}

// Presented returns the notifications still in the tray, newest first.
func (l *Local) Presented(_ context.Context) []Notification {
	items := l.tray.Items()
	out := make([]Notification, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(Notification))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DeliveredAt.After(out[j].DeliveredAt)
	})
	return out
}

// Respond records the user's action on a presented notification, removes
// it from the tray and notifies response listeners.
func (l *Local) Respond(ctx context.Context, id, actionID string) (Response, error) {
	v, ok := l.tray.Get(id)
	if !ok {
		return Response{}, ErrNotPresented
	}
	l.tray.Delete(id)

	if actionID == "" {
		actionID = DefaultAction
	}
	resp := Response{Notification: v.(Notification), ActionID: actionID}

	l.log.Info(ctx, "notification response", "id", id, "action", actionID)
	for _, fn := range l.responseListeners() {
		fn(resp)
	}
	return resp, nil
}

type subscription struct {
	once   sync.Once
	remove func()
}

func (s *subscription) Remove() {
	s.once.Do(s.remove)
}

func (l *Local) AddReceivedListener(fn func(Notification)) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	l.received[id] = fn
	return &subscription{remove: func() {
		l.mu.Lock()
		delete(l.received, id)
		l.mu.Unlock()
	}}
}

func (l *Local) AddResponseListener(fn func(Response)) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	l.responses[id] = fn
	return &subscription{remove: func() {
		l.mu.Lock()
		delete(l.responses, id)
		l.mu.Unlock()
	}}
}

func (l *Local) receivedListeners() []func(Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]func(Notification), 0, len(l.received))
	for _, fn := range l.received {
		out = append(out, fn)
	}
	return out
}

func (l *Local) responseListeners() []func(Response) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]func(Response), 0, len(l.responses))
	for _, fn := range l.responses {
		out = append(out, fn)
	}
	return out
}

// poke wakes the loop; callers hold l.mu.
func (l *Local) poke() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run fires due requests until ctx is cancelled.
func (l *Local) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		l.fireDue(ctx)
		l.tray.DeleteExpired()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-l.wake:
		}
	}
}

// fireDue presents every request whose trigger date has passed and returns
// how many fired.
func (l *Local) fireDue(ctx context.Context) int {
	now := l.now()

	l.mu.Lock()
	var due []Request
	for id, req := range l.pending {
		if req.Trigger.Date.After(now) {
			continue
		}
		if err := l.store.Erase(pendingPrefix + id); err != nil && !isNotExist(err) {
			l.log.Error(ctx, "erase fired request", "id", id, "error", err)
			continue
		}
		delete(l.pending, id)
		due = append(due, req)
	}
	pendingRequests.Set(float64(len(l.pending)))
	l.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].Trigger.Date.Before(due[j].Trigger.Date) })

	for _, req := range due {
		if err := l.sender.Send(ctx, req.Content.Title, req.Content.Body); err != nil {
			deliveriesTotal.WithLabelValues("error").Inc()
			l.log.Error(ctx, "deliver notification", "id", req.ID, "error", err)
		} else {
			deliveriesTotal.WithLabelValues("ok").Inc()
		}

		n := Notification{Request: req, DeliveredAt: now.UTC()}
		l.tray.Set(req.ID, n, cache.DefaultExpiration)

		for _, fn := range l.receivedListeners() {
			fn(n)
		}
	}
	return len(due)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
