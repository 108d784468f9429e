package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Nil(t, err)
	require.Equal(t, "data", config.Stem)
	require.Equal(t, 1000, config.Rows)
	require.Equal(t, 1, config.Attempts)
	require.Equal(t, "rss", config.Probe)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("BENCH_ROWS", "250")
	t.Setenv("BENCH_CLEAR_CACHES", "true")
	t.Setenv("BENCH_LOAD_TIMEOUT", "3s")
	t.Setenv("BENCH_ATTEMPTS", "not a number")

	dotenv := filepath.Join(t.TempDir(), ".env")
	require.Nil(t, os.WriteFile(dotenv, []byte("BENCH_STEM=dados\nBENCH_ROWS=999\n"), 0o644))
	// variables loaded from the file are process-wide, drop them afterwards
	t.Cleanup(func() { os.Unsetenv("BENCH_STEM") })

	config, err := LoadConfig(dotenv)
	require.Nil(t, err)
	require.Equal(t, 250, config.Rows)
	require.Equal(t, "dados", config.Stem)
	require.True(t, config.ClearCaches)
	require.Equal(t, 3*time.Second, config.LoadTimeout)
	require.Equal(t, 1, config.Attempts)
}
