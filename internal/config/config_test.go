package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, &Config{
		Addr:         ":8080",
		LogLevel:     "info",
		Format:       "text",
		MaxBodyBytes: 1 << 20,
	}, cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: :9090\nlog_level: debug\nfilter: sender_id == 7\nfail_fast: true\n"), 0o644))
	t.Setenv("MSGCONTENT_ADDR", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "sender_id == 7", cfg.Filter)
	require.True(t, cfg.FailFast)

	l, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, l)
}

func TestLoadWithOverride(t *testing.T) {
	chdir(t, t.TempDir())

	v := viper.New()
	v.Set("format", "html")
	cfg, err := LoadWith(v, "")
	require.NoError(t, err)
	require.Equal(t, "html", cfg.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	chdir(t, t.TempDir())
	t.Setenv("MSGCONTENT_LOG_LEVEL", "loud")
	_, err = Load("")
	require.ErrorContains(t, err, "log_level")
}
