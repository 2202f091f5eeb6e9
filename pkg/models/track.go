package models

import "time"

// Track represents one row of the catalog
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	MusicPrompt string `json:"musicPrompt"`
	VideoTitle  string `json:"videoTitle"`
	CaptionKR   string `json:"captionKr"`
	CaptionEN   string `json:"captionEn"`
	Theme       string `json:"theme"`
	ColorPreset string `json:"colorPreset"`
}

// Assignment pairs a theme with one of its color presets
type Assignment struct {
	Theme string `json:"theme"`
	Color string `json:"color"`
}

// GenerationRun describes a single execution of the catalog generator
type GenerationRun struct {
	ID            string    `json:"id"`
	Seed          uint64    `json:"seed"`
	StartIndex    int       `json:"startIndex"`
	EndIndex      int       `json:"endIndex"`
	ExistingCount int       `json:"existingCount"`
	NewCount      int       `json:"newCount"`
	OutputPath    string    `json:"outputPath"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AudioStatus values reported by the audio audit
const (
	AudioReady   = "ready"
	AudioMissing = "missing"
	AudioShort   = "short"
)

// AudioFile describes the rendered audio found for a catalog track
type AudioFile struct {
	TrackID  string `json:"trackId"`
	Status   string `json:"status"`
	FilePath string `json:"-"`
	Format   string `json:"format,omitempty"`
	Duration int    `json:"duration"` // in seconds
	FileSize int64  `json:"fileSize"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
}
