package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/ardenspace/space3-your-journey/internal/client/client"
	"github.com/ardenspace/space3-your-journey/internal/client/config"
	"github.com/ardenspace/space3-your-journey/internal/client/editor"
	"github.com/ardenspace/space3-your-journey/internal/filex"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/settings"
)

// Service is the backend as the commands see it.
type Service interface {
	Close() error
	Email() string
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error

	CreateDiary(ctx context.Context, d rpc.Diary) (*rpc.Diary, error)
	UpdateDiary(ctx context.Context, req *rpc.UpdateDiaryRequest) (*rpc.Diary, error)
	DeleteDiary(ctx context.Context, id string) error
	GetDiary(ctx context.Context, id string) (*rpc.Diary, error)
	ListDiaries(ctx context.Context) ([]*rpc.Diary, error)

	CreateTimeCapsule(ctx context.Context, req *rpc.CreateTimeCapsuleRequest) (*rpc.TimeCapsule, error)
	ListTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error)
	ListOpenableTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error)
	OpenTimeCapsule(ctx context.Context, id string) (*rpc.TimeCapsule, error)
	CancelTimeCapsuleNotification(ctx context.Context, id string) error

	ListScheduledNotifications(ctx context.Context) ([]*rpc.Notification, error)
	ListPresentedNotifications(ctx context.Context) ([]*rpc.Notification, error)
	RespondToNotification(ctx context.Context, id, actionID string) (string, error)

	ListDesigns(ctx context.Context) ([]*rpc.Design, error)
	UploadDesign(ctx context.Context, name, category string, image, thumbnail []byte) (*rpc.Design, error)
}

var _ Service = (*client.Client)(nil)

// App is what a command runs against.
type App struct {
	config   *config.Config
	svc      Service
	settings *settings.Store
	editor   *editor.Terminal
	in       *bufio.Reader
	out      io.Writer
}

// Builder creates the App for a command once flags are parsed.
type Builder func(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error)

// NewApp connects to the configured server with the session and settings
// kept under the data directory.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger := logging.New("console", os.Stderr)

	sessionDir, err := filex.EnsureDir(cfg.DataDir, "session")
	if err != nil {
		return nil, err
	}
	settingsDir, err := filex.EnsureDir(cfg.DataDir, "settings")
	if err != nil {
		return nil, err
	}

	svc, err := client.New(cfg.ServerAddr, client.NewSessionStore(sessionDir), cfg.Lang)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, svc, settings.Open(settingsDir, logger), in, out), nil
}

func newApp(cfg *config.Config, svc Service, st *settings.Store, in io.Reader, out io.Writer) *App {
	reader := bufio.NewReader(in)
	return &App{
		config:   cfg,
		svc:      svc,
		settings: st,
		editor:   editor.NewTerminal(reader, out),
		in:       reader,
		out:      out,
	}
}

func (a *App) Close() error {
	return a.svc.Close()
}

// callContext bounds one command's server calls.
func (a *App) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.Timeout)
}
