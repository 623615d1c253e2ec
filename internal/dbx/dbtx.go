// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a transaction helper, placeholder rebinding per dialect and a portable
// timestamp scanner.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs to run its queries. Repositories take
// *sql.DB for single statements and *sql.Tx inside WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn in one transaction. It commits when fn returns nil and
// rolls back otherwise; a panic in fn rolls back and is re-raised. Sealing a
// diary uses it so the capsule row and the diary link land together:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    tc, err := repos.TimeCapsules(tx).Create(ctx, userID, diaryID, openDate)
//	    if err != nil {
//	        return err
//	    }
//	    return repos.Diaries(tx).Update(ctx, userID, diaryID, link(tc))
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
