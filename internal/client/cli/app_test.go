package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/client/client"
	"github.com/ardenspace/space3-your-journey/internal/client/config"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

// fakeService records what the commands send and answers with canned
// values.
type fakeService struct {
	email   string
	pingErr error
	closed  bool

	registered []string
	loggedIn   []string
	loggedOut  bool

	created  []rpc.Diary
	updates  []*rpc.UpdateDiaryRequest
	deleted  []string
	diary    *rpc.Diary
	diaryErr error
	diaries  []*rpc.Diary

	capsuleReqs []*rpc.CreateTimeCapsuleRequest
	capsule     *rpc.TimeCapsule
	capsules    []*rpc.TimeCapsule
	opened      []string
	cancelled   []string

	scheduled     []*rpc.Notification
	presented     []*rpc.Notification
	notifCalls    int
	responded     []string
	respondResult string

	designs  []*rpc.Design
	uploaded [][]byte
}

var _ Service = (*fakeService)(nil)

func (f *fakeService) Close() error                   { f.closed = true; return nil }
func (f *fakeService) Email() string                  { return f.email }
func (f *fakeService) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeService) Register(ctx context.Context, email, password string) error {
	f.registered = append(f.registered, email+":"+password)
	return nil
}

func (f *fakeService) Login(ctx context.Context, email, password string) error {
	f.loggedIn = append(f.loggedIn, email+":"+password)
	f.email = email
	return nil
}

func (f *fakeService) Logout(ctx context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeService) CreateDiary(ctx context.Context, d rpc.Diary) (*rpc.Diary, error) {
	f.created = append(f.created, d)
	d.ID = "d1"
	return &d, nil
}

func (f *fakeService) UpdateDiary(ctx context.Context, req *rpc.UpdateDiaryRequest) (*rpc.Diary, error) {
	f.updates = append(f.updates, req)
	return &rpc.Diary{ID: req.ID}, nil
}

func (f *fakeService) DeleteDiary(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) GetDiary(ctx context.Context, id string) (*rpc.Diary, error) {
	if f.diaryErr != nil {
		return nil, f.diaryErr
	}
	return f.diary, nil
}

func (f *fakeService) ListDiaries(ctx context.Context) ([]*rpc.Diary, error) {
	return f.diaries, nil
}

func (f *fakeService) CreateTimeCapsule(ctx context.Context, req *rpc.CreateTimeCapsuleRequest) (*rpc.TimeCapsule, error) {
	f.capsuleReqs = append(f.capsuleReqs, req)
	return f.capsule, nil
}

func (f *fakeService) ListTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error) {
	return f.capsules, nil
}

func (f *fakeService) ListOpenableTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error) {
	return f.capsules, nil
}

func (f *fakeService) OpenTimeCapsule(ctx context.Context, id string) (*rpc.TimeCapsule, error) {
	f.opened = append(f.opened, id)
	return f.capsule, nil
}

func (f *fakeService) CancelTimeCapsuleNotification(ctx context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeService) ListScheduledNotifications(ctx context.Context) ([]*rpc.Notification, error) {
	f.notifCalls++
	return f.scheduled, nil
}

func (f *fakeService) ListPresentedNotifications(ctx context.Context) ([]*rpc.Notification, error) {
	f.notifCalls++
	return f.presented, nil
}

func (f *fakeService) RespondToNotification(ctx context.Context, id, actionID string) (string, error) {
	f.responded = append(f.responded, id+"/"+actionID)
	return f.respondResult, nil
}

func (f *fakeService) ListDesigns(ctx context.Context) ([]*rpc.Design, error) {
	return f.designs, nil
}

func (f *fakeService) UploadDesign(ctx context.Context, name, category string, image, thumbnail []byte) (*rpc.Design, error) {
	f.uploaded = append(f.uploaded, image, thumbnail)
	return &rpc.Design{ID: "design-1", Name: name, Category: category}, nil
}

type env struct {
	svc      *fakeService
	settings *settings.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{
		svc:      &fakeService{},
		settings: settings.Open(t.TempDir(), nil),
	}
}

// run executes the command line against the fake service with stdin as
// input and returns everything written to stdout.
func (e *env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand(func(ctx context.Context, cfg *config.Config, in io.Reader, w io.Writer) (*App, error) {
		return newApp(cfg, e.svc, e.settings, in, w), nil
	})
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDiaryNew_UsesLastStyleAndRemembersIt(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "Dear diary\nsecond line\n\n", "diary", "new", "--title", "Summer trip", "--size", "18")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved entry d1")
	assert.True(t, e.svc.closed)

	require.Len(t, e.svc.created, 1)
	d := e.svc.created[0]
	assert.Equal(t, "Summer trip", d.Title)
	assert.Equal(t, "Dear diary\nsecond line", d.Content)
	assert.Equal(t, 18.0, d.FontSize)
	assert.Equal(t, settings.Defaults().LastFontFamily, d.FontFamily)
	assert.Equal(t, settings.Defaults().LastBackgroundColor, d.BackgroundColor)

	st := e.settings.Load(context.Background())
	assert.Equal(t, 18.0, st.LastFontSize)
	assert.Empty(t, e.svc.capsuleReqs)
}

func TestDiaryNew_EmptyEntryIsNotSaved(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "\n", "diary", "new")
	require.Error(t, err)
	assert.Empty(t, e.svc.created)
}

func TestDiaryNew_SealAsCapsule(t *testing.T) {
	e := newEnv(t)
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1", OpenDate: time.Now().AddDate(1, 0, 0)}

	before := time.Now()
	out, err := e.run(t, "for later\n\n", "diary", "new", "--capsule", "1y")
	require.NoError(t, err)

	require.Len(t, e.svc.capsuleReqs, 1)
	req := e.svc.capsuleReqs[0]
	assert.Equal(t, "d1", req.DiaryID)
	assert.Empty(t, req.Option, "the date is resolved before it is sent")
	assert.False(t, req.OpenDate.Before(before.AddDate(1, 0, 0)))
	assert.False(t, req.OpenDate.After(time.Now().AddDate(1, 0, 0)))

	assert.Contains(t, out, "Sealed as time capsule c1")
	assert.Contains(t, out, "No reminder is scheduled for this capsule yet.")
	assert.NotContains(t, out, "permi")
}

func TestDiaryNew_BadCapsuleOptionSavesNothing(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "for later\n\n", "diary", "new", "--capsule", "someday")
	require.Error(t, err)
	assert.Empty(t, e.svc.created)
	assert.Empty(t, e.svc.capsuleReqs)
}

// brokenKV fails every write, like a read-only data directory.
type brokenKV struct{}

func (brokenKV) Read(string) ([]byte, error) { return nil, os.ErrNotExist }
func (brokenKV) Write(string, []byte) error  { return os.ErrPermission }

func TestDiaryNew_SettingsFailureStillSeals(t *testing.T) {
	e := newEnv(t)
	e.settings = settings.New(brokenKV{}, nil)
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1", NotificationScheduled: true}

	out, err := e.run(t, "for later\n\n", "diary", "new", "--capsule", "1m")
	require.NoError(t, err)

	require.Len(t, e.svc.created, 1)
	require.Len(t, e.svc.capsuleReqs, 1)
	assert.Contains(t, out, "Sealed as time capsule c1")
	assert.Contains(t, out, "Could not remember this style")
}

func TestCapsuleCreate_NotificationsOffCancelsReminder(t *testing.T) {
	e := newEnv(t)
	off := false
	_, err := e.settings.Update(context.Background(), settings.Patch{EnableNotifications: &off})
	require.NoError(t, err)
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1", NotificationScheduled: true, State: "scheduled"}

	out, err := e.run(t, "", "capsule", "create", "d1", "--open", "3m")
	require.NoError(t, err)

	assert.Equal(t, []string{"c1"}, e.svc.cancelled)
	assert.False(t, e.svc.capsule.NotificationScheduled)
	assert.Equal(t, "pending", e.svc.capsule.State)
	assert.Contains(t, out, "Notifications are turned off in settings")
}

func TestCapsuleCreate_CustomDateIsLocal(t *testing.T) {
	e := newEnv(t)
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1", NotificationScheduled: true}

	_, err := e.run(t, "", "capsule", "create", "d1", "--open", "2027-01-01")
	require.NoError(t, err)

	require.Len(t, e.svc.capsuleReqs, 1)
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local)
	assert.True(t, e.svc.capsuleReqs[0].OpenDate.Equal(want), "got %v", e.svc.capsuleReqs[0].OpenDate)
	assert.Empty(t, e.svc.cancelled)
}

func TestDiaryShow(t *testing.T) {
	e := newEnv(t)
	e.svc.diary = &rpc.Diary{ID: "d1", Title: "Summer trip", Content: "We went to the sea."}

	out, err := e.run(t, "", "diary", "show", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "Summer trip")
	assert.Contains(t, out, "We went to the sea.")
}

func TestDiaryShow_SealedCapsule(t *testing.T) {
	e := newEnv(t)
	e.svc.diaryErr = &rpc.Error{Code: codes.FailedPrecondition, Message: "time capsule is locked"}

	out, err := e.run(t, "", "diary", "show", "d1")
	require.NoError(t, err)
	assert.Contains(t, out, "sealed time capsule")
}

func TestDiaryEdit_StyleOnly(t *testing.T) {
	e := newEnv(t)
	e.svc.diary = &rpc.Diary{ID: "d1", Content: "text"}

	_, err := e.run(t, "", "diary", "edit", "d1", "--keep-text", "--title", "New title")
	require.NoError(t, err)

	require.Len(t, e.svc.updates, 1)
	req := e.svc.updates[0]
	assert.Equal(t, "d1", req.ID)
	require.NotNil(t, req.Title)
	assert.Equal(t, "New title", *req.Title)
	assert.Nil(t, req.Content)
	assert.Nil(t, req.FontSize)
}

func TestDiaryEdit_RewritesText(t *testing.T) {
	e := newEnv(t)
	e.svc.diary = &rpc.Diary{ID: "d1", Content: "old text"}

	_, err := e.run(t, "new text\n\n", "diary", "edit", "d1")
	require.NoError(t, err)

	require.Len(t, e.svc.updates, 1)
	require.NotNil(t, e.svc.updates[0].Content)
	assert.Equal(t, "new text", *e.svc.updates[0].Content)
}

func TestDiaryEdit_EmptyInputKeepsText(t *testing.T) {
	e := newEnv(t)
	e.svc.diary = &rpc.Diary{ID: "d1", Content: "old text"}

	_, err := e.run(t, "\n", "diary", "edit", "d1")
	require.NoError(t, err)
	require.Len(t, e.svc.updates, 1)
	assert.Nil(t, e.svc.updates[0].Content)
}

func TestDiaryListAndDelete(t *testing.T) {
	e := newEnv(t)
	e.svc.diaries = []*rpc.Diary{{ID: "d1", Title: "One", Content: "first\nsecond"}}

	out, err := e.run(t, "", "diary", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "first …")

	out, err = e.run(t, "", "diary", "rm", "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, e.svc.deleted)
	assert.Contains(t, out, "Deleted entry d1")
}

func TestCapsuleCommands(t *testing.T) {
	e := newEnv(t)
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1", NotificationScheduled: true, State: "scheduled"}
	e.svc.capsules = []*rpc.TimeCapsule{e.svc.capsule}
	e.svc.diary = &rpc.Diary{ID: "d1", Title: "Letter", Content: "Hello from the past."}

	out, err := e.run(t, "", "capsule", "create", "d1", "--open", "6m", "--title", "Letter")
	require.NoError(t, err)
	req := e.svc.capsuleReqs[0]
	assert.Equal(t, "d1", req.DiaryID)
	assert.Equal(t, "Letter", req.Title)
	assert.False(t, req.OpenDate.IsZero())
	assert.NotContains(t, out, "No reminder")

	out, err = e.run(t, "", "capsule", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "scheduled")

	out, err = e.run(t, "", "capsule", "open", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, e.svc.opened)
	assert.Contains(t, out, "Hello from the past.")

	_, err = e.run(t, "", "capsule", "cancel", "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, e.svc.cancelled)
}

func TestCapsuleCreate_RequiresDiary(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "", "capsule", "create")
	require.Error(t, err)
	assert.Empty(t, e.svc.capsuleReqs)
}

func TestNotificationsList(t *testing.T) {
	e := newEnv(t)
	delivered := time.Now()
	e.svc.presented = []*rpc.Notification{{ID: "n1", Title: "A time capsule has opened!", Body: "The diary \"Letter\" can be read now.", DeliveredAt: &delivered}}

	out, err := e.run(t, "", "notifications", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Delivered")
	assert.Contains(t, out, "n1")
	assert.Contains(t, out, "Upcoming")
	assert.Contains(t, out, "no notifications")
}

func TestNotificationsList_TurnedOff(t *testing.T) {
	e := newEnv(t)
	off := false
	_, err := e.settings.Update(context.Background(), settings.Patch{EnableNotifications: &off})
	require.NoError(t, err)

	out, err := e.run(t, "", "notifications", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "turned off")
	assert.Zero(t, e.svc.notifCalls)
}

func TestNotificationsTap(t *testing.T) {
	e := newEnv(t)
	e.svc.respondResult = "c1"
	e.svc.capsule = &rpc.TimeCapsule{ID: "c1", DiaryID: "d1"}
	e.svc.diary = &rpc.Diary{ID: "d1", Content: "Hello from the past."}

	out, err := e.run(t, "", "notifications", "tap", "n1", "--open=false")
	require.NoError(t, err)
	assert.Contains(t, out, "journey capsule open c1")
	assert.Empty(t, e.svc.opened)

	out, err = e.run(t, "", "notifications", "tap", "n1", "--action", "open")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1/", "n1/open"}, e.svc.responded)
	assert.Equal(t, []string{"c1"}, e.svc.opened)
	assert.Contains(t, out, "Hello from the past.")
}

func TestNotificationsTap_NotACapsule(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "notifications", "tap", "n2")
	require.NoError(t, err)
	assert.Contains(t, out, "Done")
	assert.Empty(t, e.svc.opened)
}

func TestDesignsUpload(t *testing.T) {
	e := newEnv(t)
	image := filepath.Join(t.TempDir(), "paper.png")
	require.NoError(t, os.WriteFile(image, []byte("png-bytes"), 0o600))

	out, err := e.run(t, "", "designs", "upload", "Paper", image, "--category", "classic")
	require.NoError(t, err)
	assert.Contains(t, out, "Added design Paper (design-1)")
	require.Len(t, e.svc.uploaded, 2)
	assert.Equal(t, []byte("png-bytes"), e.svc.uploaded[0])
	assert.Nil(t, e.svc.uploaded[1])
}

func TestDesignsUpload_MissingFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "", "designs", "upload", "Paper", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.Empty(t, e.svc.uploaded)
}

func TestSettingsCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "settings", "set", "theme=dark", "notifications=false", "size=20")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")

	st := e.settings.Load(context.Background())
	assert.Equal(t, settings.ThemeDark, st.Theme)
	assert.False(t, st.EnableNotifications)
	assert.Equal(t, 20.0, st.LastFontSize)

	_, err = e.run(t, "", "settings", "set", "theme=neon")
	require.Error(t, err)

	_, err = e.run(t, "", "settings", "reset")
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), e.settings.Load(context.Background()))
}

func TestParsePatch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "all keys", args: []string{"theme=light", "notifications=true", "color=#FFF8E7", "design=grid", "font=Serif", "size=14", "font-color=#333333"}},
		{name: "missing equals", args: []string{"theme"}, wantErr: true},
		{name: "unknown key", args: []string{"volume=11"}, wantErr: true},
		{name: "bad bool", args: []string{"notifications=maybe"}, wantErr: true},
		{name: "bad size", args: []string{"size=big"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePatch(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegister(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("secret123"), nil }

	e := newEnv(t)
	out, err := e.run(t, "me@example.com\n", "register")
	require.NoError(t, err)
	assert.Equal(t, []string{"me@example.com:secret123"}, e.svc.registered)
	assert.Equal(t, []string{"me@example.com:secret123"}, e.svc.loggedIn)
	assert.Contains(t, out, "Welcome, me@example.com!")
}

func TestRegister_PasswordsMustMatch(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	answers := []string{"secret123", "secret124"}
	readPassword = func(int) ([]byte, error) {
		pw := answers[0]
		answers = answers[1:]
		return []byte(pw), nil
	}

	e := newEnv(t)
	_, err := e.run(t, "me@example.com\n", "register")
	require.Error(t, err)
	assert.Empty(t, e.svc.registered)
}

func TestStatusAndLogout(t *testing.T) {
	e := newEnv(t)
	e.svc.email = "me@example.com"

	out, err := e.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "me@example.com")

	_, err = e.run(t, "", "logout")
	require.NoError(t, err)
	assert.True(t, e.svc.loggedOut)
}

func TestExecute_DescribesErrors(t *testing.T) {
	e := newEnv(t)
	e.svc.diaryErr = client.ErrUnauthorized

	root := NewRootCommand(func(ctx context.Context, cfg *config.Config, in io.Reader, w io.Writer) (*App, error) {
		return newApp(cfg, e.svc, e.settings, in, w), nil
	})
	root.SetArgs([]string{"diary", "show", "d1"})
	root.SetOut(io.Discard)

	var errOut bytes.Buffer
	code := Execute(context.Background(), root, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "journey login")
}

func TestDescribeError(t *testing.T) {
	assert.Contains(t, describeError(client.ErrUnavailable), "cannot be reached")
	assert.Equal(t, "Error: "+assert.AnError.Error(), describeError(assert.AnError))
}

func TestVersion_DoesNotBuildApp(t *testing.T) {
	built := false
	root := NewRootCommand(func(ctx context.Context, cfg *config.Config, in io.Reader, w io.Writer) (*App, error) {
		built = true
		return nil, nil
	})
	var out bytes.Buffer
	root.SetArgs([]string{"version"})
	root.SetOut(&out)

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.False(t, built)
	assert.Contains(t, out.String(), "Build version:")
}
