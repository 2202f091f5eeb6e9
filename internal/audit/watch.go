package audit

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"nmcatalog/pkg/models"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// settleDelay gives a renderer time to finish writing before the file is probed.
const settleDelay = 500 * time.Millisecond

// Watcher re-audits individual tracks as their audio files appear in or
// disappear from the library directory.
type Watcher struct {
	auditor *Auditor
	tracks  map[string]bool
	onCheck func(models.AudioFile)
	settle  time.Duration

	mu     sync.Mutex
	status map[string]string
}

// NewWatcher watches audio for tracks. onCheck is called with every fresh
// result whose status changed.
func (a *Auditor) NewWatcher(report Report, onCheck func(models.AudioFile)) *Watcher {
	w := &Watcher{
		auditor: a,
		tracks:  make(map[string]bool, len(report.Files)),
		onCheck: onCheck,
		settle:  settleDelay,
		status:  make(map[string]string, len(report.Files)),
	}
	for _, f := range report.Files {
		w.tracks[f.TrackID] = true
		w.status[f.TrackID] = f.Status
	}
	return w
}

// Run blocks until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.auditor.libraryPath); err != nil {
		return err
	}
	w.auditor.logger.WithField("library_path", w.auditor.libraryPath).Info("Audio watcher started")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.auditor.logger.WithError(err).Error("Audio watcher error")
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// Ignore temporary files and hidden files
	fileName := filepath.Base(event.Name)
	if strings.HasPrefix(fileName, ".") || strings.HasSuffix(fileName, ".tmp") {
		return
	}
	if !w.auditor.extractor.IsAudioFile(event.Name) {
		return
	}

	trackID := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if !w.tracks[trackID] {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		go func() {
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return
			}
			w.recheck(trackID)
		}()

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.recheck(trackID)
	}
}

func (w *Watcher) recheck(trackID string) {
	file := w.auditor.check(trackID)

	w.mu.Lock()
	changed := w.status[trackID] != file.Status
	w.status[trackID] = file.Status
	w.mu.Unlock()

	if !changed {
		return
	}
	w.auditor.logger.WithFields(logrus.Fields{
		"track_id": trackID,
		"status":   file.Status,
		"duration": file.Duration,
	}).Info("Track audio status changed")
	if w.onCheck != nil {
		w.onCheck(file)
	}
}
