// Package audit checks which catalog tracks have rendered audio ready for
// the video step.
package audit

import (
	"nmcatalog/internal/metadata"
	"nmcatalog/pkg/models"

	"github.com/sirupsen/logrus"
)

// Report is the outcome of auditing one catalog.
type Report struct {
	Files   []models.AudioFile
	Ready   int
	Missing int
	Short   int
}

// Auditor classifies each track's audio as ready, missing or short.
type Auditor struct {
	extractor   *metadata.Extractor
	libraryPath string
	minDuration int
	logger      logrus.FieldLogger
}

// NewAuditor creates an auditor looking for <libraryPath>/<track id>.<ext>.
// Files shorter than minDuration seconds are reported as short.
func NewAuditor(extractor *metadata.Extractor, libraryPath string, minDuration int, logger logrus.FieldLogger) *Auditor {
	return &Auditor{
		extractor:   extractor,
		libraryPath: libraryPath,
		minDuration: minDuration,
		logger:      logger,
	}
}

// Run audits tracks in catalog order.
func (a *Auditor) Run(tracks []models.Track) Report {
	report := Report{Files: make([]models.AudioFile, 0, len(tracks))}

	for _, t := range tracks {
		file := a.check(t.ID)
		switch file.Status {
		case models.AudioReady:
			report.Ready++
		case models.AudioShort:
			report.Short++
		default:
			report.Missing++
		}
		report.Files = append(report.Files, file)
	}
	return report
}

func (a *Auditor) check(trackID string) models.AudioFile {
	path, ok := a.extractor.FindTrackAudio(a.libraryPath, trackID)
	if !ok {
		return models.AudioFile{TrackID: trackID, Status: models.AudioMissing}
	}

	info, err := a.extractor.Inspect(trackID, path)
	if err != nil {
		a.logger.WithError(err).WithField("track_id", trackID).Warn("Audio file unreadable")
		return models.AudioFile{TrackID: trackID, Status: models.AudioMissing, FilePath: path}
	}

	info.Status = models.AudioReady
	if info.Duration < a.minDuration {
		info.Status = models.AudioShort
	}
	return info
}
