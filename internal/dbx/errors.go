package dbx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// Wrap marks a driver failure as a store error while keeping the cause
// reachable through errors.Is/As.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStore, err)
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
