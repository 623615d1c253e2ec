package dbx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := `SELECT id FROM diaries WHERE user_id = ? AND id = ?`

	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t, `SELECT id FROM diaries WHERE user_id = $1 AND id = $2`, DialectPostgres.Rebind(q))
	assert.Equal(t, `SELECT 1`, DialectPostgres.Rebind(`SELECT 1`))
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in   string
		want Dialect
		err  bool
	}{
		{in: "postgres", want: DialectPostgres},
		{in: "pgx", want: DialectPostgres},
		{in: " SQLite3 ", want: DialectSQLite},
		{in: "mysql", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "pgx", DialectPostgres.DriverName())
	assert.Equal(t, "sqlite", DialectSQLite.DriverName())
}
