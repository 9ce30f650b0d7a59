package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/municipales2026/importer/pkg/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_AllFields(t *testing.T) {
	path := writeConfig(t, `data_dir: /srv/data
pattern: "municipales-2026-t1*.csv"
batch_size: 2000
connect_retries: 3
metrics_file: /var/lib/node_exporter/municipales.prom
timeout: 10m
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, "municipales-2026-t1*.csv", cfg.Pattern)
	assert.Equal(t, 2000, cfg.BatchSize)
	require.NotNil(t, cfg.ConnectRetries)
	assert.Equal(t, 3, *cfg.ConnectRetries)
	assert.Equal(t, "/var/lib/node_exporter/municipales.prom", cfg.MetricsFile)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)
}

func TestLoadFile_MinimalYAML(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "batch_size: 500\n"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DataDir)
	assert.Nil(t, cfg.ConnectRetries)
	assert.Equal(t, 500, cfg.BatchSize)
}

func TestLoadFile_FileNotFound(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), ConfigFileName))
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "{{invalid"))
	assert.ErrorIs(t, err, importer.ErrInvalidConfig)
	assert.Nil(t, cfg)
}

func TestLoadFile_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"negative batch size", "batch_size: -1\n", "batch_size"},
		{"negative retries", "connect_retries: -2\n", "connect_retries"},
		{"bad timeout", "timeout: soon\n", "timeout"},
		{"negative timeout", "timeout: -5s\n", "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, importer.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Nil(t, cfg)
		})
	}
}

func TestApplyTo(t *testing.T) {
	retries := 0
	pc := &ProjectConfig{DataDir: "in", BatchSize: 50, ConnectRetries: &retries, Timeout: "30s"}
	cfg := &importer.ImportConfig{
		DataDir:            "data",
		SourcePattern:      importer.DefaultSourcePattern,
		CandidateBatchSize: importer.DefaultCandidateBatchSize,
		ConnectRetries:     4,
	}

	require.NoError(t, pc.ApplyTo(cfg))

	assert.Equal(t, "in", cfg.DataDir)
	assert.Equal(t, importer.DefaultSourcePattern, cfg.SourcePattern, "unset pattern keeps the default")
	assert.Equal(t, 50, cfg.CandidateBatchSize)
	assert.Equal(t, 0, cfg.ConnectRetries, "explicit zero overrides")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
