package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nmcatalog/internal/metadata"
	"nmcatalog/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsNewAudio(t *testing.T) {
	dir := t.TempDir()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	auditor := NewAuditor(metadata.NewExtractor([]string{".m4a"}, logger), dir, 60, logger)

	report := auditor.Run([]models.Track{{ID: "NM010"}})
	require.Equal(t, 1, report.Missing)

	results := make(chan models.AudioFile, 4)
	w := auditor.NewWatcher(report, func(f models.AudioFile) { results <- f })
	w.settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.m4a"), []byte{}, 0644))
	writeM4A(t, filepath.Join(dir, "NM010.m4a"), 120)

	select {
	case f := <-results:
		assert.Equal(t, "NM010", f.TrackID)
		assert.Equal(t, models.AudioReady, f.Status)
		assert.Equal(t, 120, f.Duration)
	case <-time.After(5 * time.Second):
		t.Fatal("no status change reported")
	}
}
