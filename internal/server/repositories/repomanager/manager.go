// Package repomanager vends dialect-bound repositories and owns the
// database connection bootstrap (driver selection and goose migrations).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/migrations"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/designs"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/diaries"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/refreshtokens"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/timecapsules"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Diaries(db dbx.DBTX) diaries.Repository
	TimeCapsules(db dbx.DBTX) timecapsules.Repository
	Designs(db dbx.DBTX) designs.Repository
}

// SQLRepositoryManager binds every repository to one dialect and clock.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
	now     func() time.Time
}

// NewSQLRepositoryManager returns a manager for dialect. A nil now
// defaults to time.Now.
func NewSQLRepositoryManager(dialect dbx.Dialect, now func() time.Time) *SQLRepositoryManager {
	if now == nil {
		now = time.Now
	}
	return &SQLRepositoryManager{dialect: dialect, now: now}
}

func (m *SQLRepositoryManager) Dialect() dbx.Dialect {
	return m.dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect, m.now)
}

func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db, m.dialect, m.now)
}

func (m *SQLRepositoryManager) Diaries(db dbx.DBTX) diaries.Repository {
	return diaries.NewSQLRepository(db, m.dialect, m.now)
}

func (m *SQLRepositoryManager) TimeCapsules(db dbx.DBTX) timecapsules.Repository {
	return timecapsules.NewSQLRepository(db, m.dialect, m.now)
}

func (m *SQLRepositoryManager) Designs(db dbx.DBTX) designs.Repository {
	return designs.NewSQLRepository(db, m.dialect, m.now)
}

// runMigrations is a seam for testing migrations.Up.
var runMigrations = migrations.Up

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, m.dialect)
}

// OpenDB opens and pings a database for dialect. SQLite is limited to a
// single connection since it serialises writers anyway.
func OpenDB(ctx context.Context, dialect dbx.Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == dbx.DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}
