// Package server wires configuration, storage, the notification facility
// and the gRPC and ops servers into one runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/filex"
	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/ardenspace/space3-your-journey/internal/server/config"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/ops"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/ardenspace/space3-your-journey/internal/server/scheduler"
	"github.com/ardenspace/space3-your-journey/internal/server/services"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	gs "github.com/ardenspace/space3-your-journey/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	facility  *facility.Local
	scheduler *scheduler.Scheduler
	capsules  *services.TimeCapsuleService
	grpc      *gs.GRPCServer
	ops       *ops.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(c.LogFormat, os.Stdout)

	lang, err := language.Parse(c.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", c.Locale, err)
	}

	dialect, err := dbx.ParseDialect(c.DatabaseDialect)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.OpenDB(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewSQLRepositoryManager(dialect, nil)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	dataDir, err := filex.EnsureDir(c.DataDir, "notifications")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	fac, err := facility.NewLocal(ctx, facility.Options{
		Dir:     dataDir,
		Grant:   c.NotificationPermission == config.PermissionGrant,
		Sender:  newSender(ctx, c, logger),
		Tick:    c.NotificationTick,
		TrayTTL: c.TrayTTL,
		Log:     logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("notification facility: %w", err)
	}

	sched := scheduler.New(fac, lang, logger)
	capsules := services.NewTimeCapsuleService(db, rm, sched, logger)

	svc := gs.Services{
		Users:         services.NewUserService(db, rm, c),
		Diaries:       services.NewDiaryService(db, rm),
		TimeCapsules:  capsules,
		Designs:       services.NewDesignService(db, rm, c, logger),
		Notifications: fac,
	}

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		facility:  fac,
		scheduler: sched,
		capsules:  capsules,
		grpc:      gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey, lang),
		ops:       ops.NewServer(c.OpsAddrHTTP, db, logger),
	}, nil
}

// newSender delivers through the configured shoutrrr URLs, or to the log
// when none can be used.
func newSender(ctx context.Context, c *config.Config, logger logging.Logger) facility.Sender {
	if len(c.NotificationURLs) > 0 {
		s, err := facility.NewShoutrrrSender(c.NotificationURLs, 0, nil)
		if err == nil {
			return s
		}
		logger.Warn(ctx, "notification URLs unusable, presenting to log", "error", err)
	}
	return facility.LogSender{Log: logger}
}

// Run reconciles time capsules with the facility, then serves until a
// signal arrives or a server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	if missing := app.config.MissingStorageKeys(); len(missing) > 0 {
		app.logger.Warn(ctx, "object storage disabled, designs are served without images", "missing", missing)
	}

	report, err := app.capsules.ReconcileOnLaunch(ctx)
	if err != nil {
		app.logger.Error(ctx, "time capsule reconcile incomplete", "error", err)
	}
	app.logger.Info(ctx, "time capsules reconciled",
		"rescheduled", report.Rescheduled,
		"cleared", report.Cleared,
		"repaired", report.Repaired,
		"orphans_cancelled", report.OrphansCancelled)

	listeners := app.scheduler.SetupListeners(func(capsuleID string) {
		app.logger.Info(ctx, "time capsule ready to open", "capsule_id", capsuleID)
	})
	defer listeners.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.facility.Run(ctx) })
	g.Go(func() error { return app.grpc.Run(ctx) })
	g.Go(func() error { return app.ops.Run(ctx) })

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
