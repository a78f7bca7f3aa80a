package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	unchanged, err := ResolvePath("data/seatwatch.db")
	require.NoError(t, err)
	require.Equal(t, "data/seatwatch.db", unchanged)

	resolved, err := ResolvePath("<dev_state>/seatwatch.db")
	require.NoError(t, err)
	require.Equal(t, "seatwatch.db", filepath.Base(resolved))
	require.Equal(t, ".state", filepath.Base(filepath.Dir(resolved)))

	info, err := os.Stat(filepath.Dir(resolved))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
