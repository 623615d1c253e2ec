// Package repotest opens throwaway migrated databases for repository and
// service tests.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/migrations"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// OpenSQLite returns a fresh in-memory SQLite database with the schema
// applied. It is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), seq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(context.Background(), db, dbx.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Clock is a settable clock for deterministic server timestamps.
type Clock struct {
	now time.Time
}

// NewClock starts a clock at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current clock value.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
