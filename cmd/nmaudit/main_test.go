package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"nmcatalog/internal/catalog"
	"nmcatalog/internal/config"
	"nmcatalog/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeM4A writes an m4a skeleton whose mvhd reports the given seconds.
func writeM4A(t *testing.T, path string, seconds uint32) {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(8+28))
	buf.WriteString("moov")
	binary.Write(&buf, binary.BigEndian, uint32(28))
	buf.WriteString("mvhd")
	buf.Write(make([]byte, 4+4+4))
	binary.Write(&buf, binary.BigEndian, uint32(1))
	binary.Write(&buf, binary.BigEndian, seconds)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func setup(t *testing.T, edit func(cfg *config.Config)) (string, string) {
	t.Helper()
	t.Setenv(config.SeedEnv, "")
	os.Unsetenv(config.SeedEnv)

	dir := t.TempDir()
	audioDir := filepath.Join(dir, "audio")
	require.NoError(t, os.Mkdir(audioDir, 0755))

	cfg := config.DefaultConfig()
	cfg.Catalog.InputPath = filepath.Join(dir, "existing.csv")
	cfg.Catalog.OutputPath = filepath.Join(dir, "complete.csv")
	cfg.Database.Path = filepath.Join(dir, "nmcatalog.db")
	cfg.Audio.LibraryPath = audioDir
	cfg.Logging.Level = "error"
	if edit != nil {
		edit(cfg)
	}

	tracks := []models.Track{{ID: "NM010"}, {ID: "NM011"}, {ID: "NM012"}}
	require.NoError(t, catalog.Write(cfg.Catalog.OutputPath, tracks))
	writeM4A(t, filepath.Join(audioDir, "NM010.m4a"), 3600)
	writeM4A(t, filepath.Join(audioDir, "NM011.m4a"), 600)

	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, cfg.SaveToFile(configPath))
	return dir, configPath
}

func TestRunAuditReport(t *testing.T) {
	_, configPath := setup(t, nil)

	var out bytes.Buffer
	require.NoError(t, runAudit(context.Background(), configPath, false, &out))

	assert.Contains(t, out.String(), "NM011  short (600s)")
	assert.Contains(t, out.String(), "NM012  missing\n")
	assert.NotContains(t, out.String(), "NM010")
	assert.Contains(t, out.String(), "Audit: 3 tracks\n   - Ready: 1\n   - Missing: 1\n   - Short: 1\n")
}

func TestRunAuditDatabaseFailureOnlyWarns(t *testing.T) {
	dir, configPath := setup(t, nil)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	cfg.Database.Enabled = true
	cfg.Database.Path = filepath.Join(blocker, "nmcatalog.db")
	require.NoError(t, cfg.SaveToFile(configPath))

	var out bytes.Buffer
	require.NoError(t, runAudit(context.Background(), configPath, false, &out))
	assert.Contains(t, out.String(), "Audit: 3 tracks")
}

func TestRunAuditMissingAudioDirectory(t *testing.T) {
	_, configPath := setup(t, func(cfg *config.Config) {
		cfg.Audio.LibraryPath = filepath.Join(cfg.Audio.LibraryPath, "absent")
	})

	var out bytes.Buffer
	assert.Error(t, runAudit(context.Background(), configPath, false, &out))
	assert.Empty(t, out.String())
}
