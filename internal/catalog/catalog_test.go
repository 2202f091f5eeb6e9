package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "nmcatalog/internal/errors"
	"nmcatalog/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "ID,Title,Music_Prompt,Video_Title,Video_Caption_KR,Video_Caption_EN,Theme,ColorPreset\n"

func sampleTrack(id string) models.Track {
	return models.Track{
		ID:          id,
		Title:       "Title " + id,
		MusicPrompt: "Create delta wave ambient music, slowly",
		VideoTitle:  "Title " + id + " 🌙 1 Hour Sleep Music",
		CaptionKR:   "편안한 밤이에요 💙\n\n\"따옴표\" 포함",
		CaptionEN:   "Have a peaceful night 💙\n\n#DeltaWaves #DeepSleep",
		Theme:       "ocean",
		ColorPreset: "midnight",
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestWriteThenLoadPreservesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "catalog.csv")
	tracks := []models.Track{sampleTrack("NM001"), sampleTrack("NM002")}

	require.NoError(t, Write(path, tracks))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tracks, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should not be left behind")
}

func TestEncodeHeaderFirst(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, header, buf.String())
}

func TestLoadHeaderOnly(t *testing.T) {
	tracks, err := Load(writeFile(t, header))
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSourceUnavailable))
}

func TestLoadSchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing column", "ID,Title,Music_Prompt,Video_Title,Video_Caption_KR,Video_Caption_EN,Theme\n"},
		{"short row", header + "NM001,Title\n"},
		{"unterminated quote", header + "NM001,\"Title,a,b,c,d,e,f\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrSchemaMismatch), "got %v", err)
		})
	}
}

func TestLoadReordersColumnsAndIgnoresExtras(t *testing.T) {
	content := "Theme,ID,Extra,ColorPreset,Title,Music_Prompt,Video_Title,Video_Caption_KR,Video_Caption_EN\n" +
		"ocean,NM001,x,arctic,T,P,V,K,E\n"

	tracks, err := Load(writeFile(t, "\xEF\xBB\xBF"+content))
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, models.Track{
		ID: "NM001", Title: "T", MusicPrompt: "P", VideoTitle: "V",
		CaptionKR: "K", CaptionEN: "E", Theme: "ocean", ColorPreset: "arctic",
	}, tracks[0])
}

func TestLoadAcceptsCRLF(t *testing.T) {
	content := strings.ReplaceAll(header, "\n", "\r\n") + "NM001,T,P,V,K,E,ocean,arctic\r\n"

	tracks, err := Load(writeFile(t, content))
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "arctic", tracks[0].ColorPreset)
}

func TestMerge(t *testing.T) {
	existing := []models.Track{sampleTrack("NM001"), sampleTrack("NM002")}
	generated := []models.Track{sampleTrack("NM010"), sampleTrack("NM011")}

	merged, err := Merge(existing, generated)
	require.NoError(t, err)

	ids := make([]string, 0, len(merged))
	for _, track := range merged {
		ids = append(ids, track.ID)
	}
	assert.Equal(t, []string{"NM001", "NM002", "NM010", "NM011"}, ids)
}

func TestMergeEmptyExisting(t *testing.T) {
	merged, err := Merge(nil, []models.Track{sampleTrack("NM010")})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestMergeRejectsDuplicates(t *testing.T) {
	_, err := Merge([]models.Track{sampleTrack("NM010")}, []models.Track{sampleTrack("NM010")})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateID))
}

func TestMaxIndex(t *testing.T) {
	tracks := []models.Track{
		sampleTrack("NM003"),
		sampleTrack("NM009"),
		sampleTrack("XX500"),
		sampleTrack("NMabc"),
	}

	assert.Equal(t, 9, MaxIndex(tracks, "NM"))
	assert.Equal(t, 500, MaxIndex(tracks, "XX"))
	assert.Equal(t, -1, MaxIndex(nil, "NM"))
}

func TestComputeStats(t *testing.T) {
	a := sampleTrack("NM001")
	b := sampleTrack("NM002")
	c := sampleTrack("NM003")
	c.Theme = "moonlight"
	c.ColorPreset = "electric"

	stats := ComputeStats([]models.Track{a, b, c})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []Count{{"ocean", 2}, {"moonlight", 1}}, stats.Themes)
	assert.Equal(t, []Count{{"midnight", 2}, {"electric", 1}}, stats.Colors)
}
