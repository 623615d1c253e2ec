package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap("insert diary", cause)

	assert.ErrorIs(t, err, common.ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert diary")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
	assert.False(t, IsUniqueViolation(errors.New("disk I/O error")))
	assert.False(t, IsUniqueViolation(nil))
}
