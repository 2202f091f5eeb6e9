package audit

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"nmcatalog/internal/metadata"
	"nmcatalog/pkg/models"

	"github.com/sirupsen/logrus"
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

func TestAuditorRun(t *testing.T) {
	dir := t.TempDir()
	writeM4A(t, filepath.Join(dir, "NM010.m4a"), 3600)
	writeM4A(t, filepath.Join(dir, "NM011.m4a"), 120)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	extractor := metadata.NewExtractor([]string{".mp3", ".m4a"}, logger)
	auditor := NewAuditor(extractor, dir, 3600, logger)

	report := auditor.Run([]models.Track{{ID: "NM010"}, {ID: "NM011"}, {ID: "NM012"}})

	assert.Equal(t, 1, report.Ready)
	assert.Equal(t, 1, report.Short)
	assert.Equal(t, 1, report.Missing)
	require.Len(t, report.Files, 3)

	assert.Equal(t, models.AudioReady, report.Files[0].Status)
	assert.Equal(t, 3600, report.Files[0].Duration)
	assert.Equal(t, models.AudioShort, report.Files[1].Status)
	assert.Equal(t, 120, report.Files[1].Duration)
	assert.Equal(t, models.AudioFile{TrackID: "NM012", Status: models.AudioMissing}, report.Files[2])
}

func TestAuditorEmptyCatalog(t *testing.T) {
	logger := logrus.New()
	auditor := NewAuditor(metadata.NewExtractor([]string{".mp3"}, logger), t.TempDir(), 3600, logger)

	report := auditor.Run(nil)
	assert.Empty(t, report.Files)
	assert.Zero(t, report.Ready+report.Missing+report.Short)
}
