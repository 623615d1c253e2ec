package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureDir(tmp, "notifications")
	require.NoError(t, err)

	want := filepath.Join(tmp, "notifications")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()

	first, err := EnsureDir(tmp, "settings")
	require.NoError(t, err)

	second, err := EnsureDir(tmp, "settings")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureDir_FailsUnderFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := EnsureDir(file, "sub")
	require.Error(t, err)
}
