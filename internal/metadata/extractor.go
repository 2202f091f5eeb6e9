package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nmcatalog/pkg/models"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/sirupsen/logrus"
	"github.com/tcolgate/mp3"
)

// Extractor reads duration and tags from rendered track audio
type Extractor struct {
	supportedFormats []string
	logger           logrus.FieldLogger
}

// NewExtractor creates a new metadata extractor
func NewExtractor(supportedFormats []string, logger logrus.FieldLogger) *Extractor {
	return &Extractor{
		supportedFormats: supportedFormats,
		logger:           logger,
	}
}

// FindTrackAudio looks for <dir>/<trackID><ext> for each supported extension,
// in configured order, and returns the first match.
func (e *Extractor) FindTrackAudio(dir, trackID string) (string, bool) {
	for _, ext := range e.supportedFormats {
		for _, candidate := range []string{ext, strings.ToUpper(ext)} {
			path := filepath.Join(dir, trackID+candidate)
			if st, err := os.Stat(path); err == nil && st.Mode().IsRegular() {
				return path, true
			}
		}
	}
	return "", false
}

// Inspect extracts what the audit needs from an audio file. Missing tags are
// not an error; an unreadable file is. A duration that cannot be measured is
// reported as 0 so the track counts as short rather than ready.
func (e *Extractor) Inspect(trackID, filePath string) (models.AudioFile, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return models.AudioFile{}, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return models.AudioFile{}, err
	}

	info := models.AudioFile{
		TrackID:  trackID,
		FilePath: filePath,
		Format:   strings.ToLower(filepath.Ext(filePath)),
		FileSize: stat.Size(),
	}

	length, err := measureLength(file, info.Format)
	if err != nil {
		e.logger.WithError(err).WithField("file_path", filePath).Warn("Could not measure audio length")
	}
	info.Duration = int(length / time.Second)

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return models.AudioFile{}, err
	}
	if m, err := tag.ReadFrom(file); err == nil {
		info.Title = m.Title()
		info.Artist = m.Artist()
	} else {
		e.logger.WithError(err).WithField("file_path", filePath).Debug("No readable tags")
	}

	e.logger.WithFields(logrus.Fields{
		"file_path":       filePath,
		"length":          length,
		"processing_time": time.Since(startTime),
	}).Debug("Inspected audio file")

	return info, nil
}

// lengthReaders measure playback length from an open file, keyed by
// lowercase extension. Each reader starts at offset 0.
var lengthReaders = map[string]func(io.ReadSeeker) (time.Duration, error){
	".mp3":  mp3Length,
	".flac": flacLength,
	".wav":  wavLength,
	".m4a":  m4aLength,
}

func measureLength(r io.ReadSeeker, format string) (time.Duration, error) {
	read, ok := lengthReaders[format]
	if !ok {
		return 0, fmt.Errorf("no length reader for %s", format)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return read(r)
}

// mp3Length sums every decodable frame. Renders are long, so a file that
// yields no frames is an error rather than a bitrate guess.
func mp3Length(r io.ReadSeeker) (time.Duration, error) {
	dec := mp3.NewDecoder(r)
	var (
		total   time.Duration
		frame   mp3.Frame
		skipped int
		frames  int
	)
	for {
		err := dec.Decode(&frame, &skipped)
		if err != nil {
			if frames == 0 {
				return 0, fmt.Errorf("no mp3 frames: %w", err)
			}
			// A truncated tail still counts what decoded
			return total, nil
		}
		total += frame.Duration()
		frames++
	}
}

// flacLength reads the sample count from STREAMINFO.
func flacLength(r io.ReadSeeker) (time.Duration, error) {
	stream, err := flac.New(r)
	if err != nil {
		return 0, err
	}
	si := stream.Info
	if si.SampleRate == 0 || si.NSamples == 0 {
		return 0, errors.New("flac STREAMINFO has no sample count")
	}
	return samplesToDuration(si.NSamples, uint64(si.SampleRate)), nil
}

// wavLength divides the data chunk by the frame size from the fmt chunk.
func wavLength(r io.ReadSeeker) (time.Duration, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, errors.New("invalid wav file")
	}
	frameSize := uint64(dec.BitDepth/8) * uint64(dec.NumChans)
	if frameSize == 0 || dec.SampleRate == 0 {
		return 0, errors.New("invalid wav format chunk")
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, err
	}
	return samplesToDuration(uint64(dec.PCMLen())/frameSize, uint64(dec.SampleRate)), nil
}

func samplesToDuration(samples, rate uint64) time.Duration {
	whole := samples / rate
	rest := samples % rate
	return time.Duration(whole)*time.Second + time.Duration(rest)*time.Second/time.Duration(rate)
}

// m4aLength reads timescale and duration from moov/mvhd.
func m4aLength(r io.ReadSeeker) (time.Duration, error) {
	moov, err := findAtom(r, "moov", -1)
	if err != nil {
		return 0, err
	}
	mvhd, err := findAtom(r, "mvhd", moov)
	if err != nil {
		return 0, err
	}
	if mvhd < 4 {
		return 0, errors.New("mvhd atom too small")
	}

	var header [4]byte // version + flags
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, err
	}

	var timescale uint32
	var units uint64
	if header[0] == 1 {
		var body struct {
			Created, Modified uint64
			Timescale         uint32
			Units             uint64
		}
		if err := binary.Read(r, binary.BigEndian, &body); err != nil {
			return 0, err
		}
		timescale, units = body.Timescale, body.Units
	} else {
		var body struct {
			Created, Modified uint32
			Timescale         uint32
			Units             uint32
		}
		if err := binary.Read(r, binary.BigEndian, &body); err != nil {
			return 0, err
		}
		timescale, units = body.Timescale, uint64(body.Units)
	}
	if timescale == 0 {
		return 0, errors.New("mvhd timescale is zero")
	}
	return samplesToDuration(units, uint64(timescale)), nil
}

// findAtom scans sibling atoms from the current offset, reading at most
// limit bytes (-1 for no limit). It leaves r at the start of the named
// atom's payload and returns the payload size.
func findAtom(r io.ReadSeeker, name string, limit int64) (int64, error) {
	var consumed int64
	for limit < 0 || consumed < limit {
		var head [8]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return 0, fmt.Errorf("%s atom not found: %w", name, err)
		}
		size := int64(binary.BigEndian.Uint32(head[:4]))
		if size < 8 {
			return 0, fmt.Errorf("invalid atom size %d", size)
		}
		if string(head[4:]) == name {
			return size - 8, nil
		}
		if _, err := r.Seek(size-8, io.SeekCurrent); err != nil {
			return 0, err
		}
		consumed += size
	}
	return 0, fmt.Errorf("%s atom not found", name)
}

// IsAudioFile checks if a file is a supported audio format
func (e *Extractor) IsAudioFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, format := range e.supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
