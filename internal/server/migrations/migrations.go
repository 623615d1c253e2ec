// Package migrations embeds the goose schema migrations for every supported
// dialect and applies them.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// For returns the migration directory for the dialect.
func For(d dbx.Dialect) (fs.FS, error) {
	if d == dbx.DialectPostgres {
		return fs.Sub(Migrations, "postgres")
	}
	return fs.Sub(Migrations, "sqlite")
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies every pending migration for the dialect.
func Up(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	fsys, err := For(d)
	if err != nil {
		return err
	}

	goose.SetBaseFS(fsys)
	gooseDialect := "sqlite3"
	if d == dbx.DialectPostgres {
		gooseDialect = "postgres"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return gooseUpContext(ctx, db, ".")
}
