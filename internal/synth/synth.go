// Package synth builds catalog records from track indices and theme assignments.
package synth

import (
	"fmt"
	"strings"
	"text/template"

	apperrors "nmcatalog/internal/errors"
	"nmcatalog/pkg/models"
)

var (
	musicPromptTmpl = template.Must(template.New("music_prompt").Parse(musicPromptTemplate))
	videoTitleTmpl  = template.Must(template.New("video_title").Parse(videoTitleTemplate))
	captionKRTmpl   = template.Must(template.New("caption_kr").Parse(captionKRTemplate))
	captionENTmpl   = template.Must(template.New("caption_en").Parse(captionENTemplate))
)

// fields is the data every template is rendered with.
type fields struct {
	Title         string
	Category      string
	CategoryLower string
	Band          string
}

// TrackID formats an index as prefix plus a zero-padded 3-digit number.
func TrackID(prefix string, i int) string {
	return fmt.Sprintf("%s%03d", prefix, i)
}

// Record builds the complete record for index i with the given assignment.
func Record(prefix string, i int, a models.Assignment) (models.Track, error) {
	w := WaveformFor(i)
	f := fields{
		Title:         w.Title(i),
		Category:      w.Category,
		CategoryLower: strings.ToLower(w.Category),
		Band:          w.Band,
	}

	prompt, err := render(musicPromptTmpl, f)
	if err != nil {
		return models.Track{}, err
	}
	videoTitle, err := render(videoTitleTmpl, f)
	if err != nil {
		return models.Track{}, err
	}
	captionKR, err := render(captionKRTmpl, f)
	if err != nil {
		return models.Track{}, err
	}
	captionEN, err := render(captionENTmpl, f)
	if err != nil {
		return models.Track{}, err
	}

	return models.Track{
		ID:          TrackID(prefix, i),
		Title:       f.Title,
		MusicPrompt: prompt,
		VideoTitle:  videoTitle,
		CaptionKR:   captionKR,
		CaptionEN:   captionEN,
		Theme:       a.Theme,
		ColorPreset: a.Color,
	}, nil
}

// Synthesize builds one record per index in [start, end], in ascending order.
// Index start takes assignments[0], start+1 takes assignments[1], and so on;
// the assignment count must match the range length exactly.
func Synthesize(start, end int, prefix string, assignments []models.Assignment) ([]models.Track, error) {
	if start < 0 {
		return nil, apperrors.Configuration("start index %d is negative", start)
	}
	if end < start {
		return nil, apperrors.Configuration("end index %d is before start index %d", end, start)
	}
	if n := end - start + 1; len(assignments) != n {
		return nil, apperrors.Configuration("index range %d-%d needs %d assignments, got %d", start, end, n, len(assignments))
	}

	tracks := make([]models.Track, 0, len(assignments))
	for i := start; i <= end; i++ {
		track, err := Record(prefix, i, assignments[i-start])
		if err != nil {
			return nil, fmt.Errorf("build track %d: %w", i, err)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func render(t *template.Template, f fields) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, f); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return b.String(), nil
}
