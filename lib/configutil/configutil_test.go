package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Database string `json:"database"`
	Poller   struct {
		Concurrency int  `json:"concurrency"`
		WaitList    bool `json:"notify_wait_list"`
	} `json:"poller"`
}

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments are allowed
		database: "seatwatch.db",
		poller: { concurrency: 5 },
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		poller: { concurrency: 2, notify_wait_list: true },
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "seatwatch.db", cfg.Database)
	require.Equal(t, 2, cfg.Poller.Concurrency)
	require.True(t, cfg.Poller.WaitList)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("SEATWATCH_TEST_PRESENT", "value")
	t.Setenv("SEATWATCH_TEST_EMPTY", "")

	values, err := RequireEnv("SEATWATCH_TEST_PRESENT")
	require.NoError(t, err)
	require.Equal(t, "value", values["SEATWATCH_TEST_PRESENT"])

	_, err = RequireEnv("SEATWATCH_TEST_PRESENT", "SEATWATCH_TEST_EMPTY")
	require.True(t, errors.Is(err, ErrMissingSecret))
	require.Contains(t, err.Error(), "SEATWATCH_TEST_EMPTY")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeFile(t, path, "SEATWATCH_TEST_DOTENV=from-file\n")
	t.Setenv("SEATWATCH_TEST_DOTENV", "")
	os.Unsetenv("SEATWATCH_TEST_DOTENV")

	err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "from-file", os.Getenv("SEATWATCH_TEST_DOTENV"))
}
