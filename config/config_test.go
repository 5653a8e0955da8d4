package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DATA_SOURCE_URL", "BBFS_STRATEGY", "BBFS_STRATEGY_SIZE", "BBFS_STORAGE_DSN",
		"BBFS_SERVER_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 15, cfg.Source.TimeoutSeconds)
	require.NotNil(t, cfg.Source.MaxRetries)
	assert.Equal(t, 3, *cfg.Source.MaxRetries)
	assert.Equal(t, "weekday_frequency", cfg.Strategy.Name)
	assert.Equal(t, 7, cfg.Strategy.Size)
	require.NotNil(t, cfg.Strategy.TargetMaxLoss)
	assert.Equal(t, 10, *cfg.Strategy.TargetMaxLoss)
	assert.Equal(t, []int{6, 7, 8}, cfg.Strategy.TuneSizes)
	assert.Equal(t, 10, cfg.Analysis.StreakWindow)
	assert.Equal(t, 8, cfg.Analysis.RecentWindow)
	assert.Equal(t, "next", cfg.Analysis.PredictionDay)
	assert.Equal(t, domain.DefaultSeverityThresholds(), cfg.Analysis.Thresholds)
	assert.Equal(t, "bbfs.db", cfg.Storage.DSN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, int64(0), int64(cfg.RefreshInterval()))
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
source:
  url: "https://draws.example/feed.json"
  refresh_interval_seconds: 60
strategy:
  name: fixed
  fixed_digits: [0, 1, 2, 3, 4, 5]
  size: 6
analysis:
  thresholds: {caution: 2, high: 3, critical: 5, danger: 7}
log:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://draws.example/feed.json", cfg.Source.URL)
	assert.Equal(t, 60.0, cfg.RefreshInterval().Seconds())
	assert.Equal(t, "fixed", cfg.Strategy.Name)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, cfg.Strategy.FixedDigits)
	assert.Equal(t, domain.SeverityThresholds{Caution: 2, High: 3, Critical: 5, Danger: 7}, cfg.Analysis.Thresholds)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitZeros(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, `
source: {max_retries: 0}
strategy: {target_max_loss: 0}
analysis: {prediction_day: latest}
`))
	require.NoError(t, err)
	assert.Equal(t, 0, *cfg.Source.MaxRetries)
	assert.Equal(t, 0, *cfg.Strategy.TargetMaxLoss)
	assert.Equal(t, "latest", cfg.Analysis.PredictionDay)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_SOURCE_URL", "http://env.example/")
	t.Setenv("BBFS_STRATEGY_SIZE", "8")
	t.Setenv("BBFS_STORAGE_DSN", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "source: {url: http://file.example/}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/", cfg.Source.URL)
	assert.Equal(t, 8, cfg.Strategy.Size)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"size":       "strategy: {size: 11}\n",
		"tune size":  "strategy: {tune_sizes: [0, 7]}\n",
		"thresholds": "analysis: {thresholds: {caution: 5, high: 3, critical: 8, danger: 10}}\n",
		"log format": "log: {format: xml}\n",
		"retries":    "source: {max_retries: -1}\n",
		"target":     "strategy: {target_max_loss: -2}\n",
		"day":        "analysis: {prediction_day: tomorrow}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := Load(writeConfig(t, "source: [unterminated\n"))
	assert.Error(t, err)

	t.Setenv("BBFS_STRATEGY_SIZE", "seven")
	_, err = Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestLoad_ShippedConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 600.0, cfg.RefreshInterval().Seconds())
}
