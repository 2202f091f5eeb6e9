package catalog

import (
	"regexp"
	"sort"
	"strconv"

	apperrors "nmcatalog/internal/errors"
	"nmcatalog/pkg/models"
)

// Merge appends generated after existing. Any id seen twice fails the merge.
func Merge(existing, generated []models.Track) ([]models.Track, error) {
	merged := make([]models.Track, 0, len(existing)+len(generated))
	seen := make(map[string]bool, cap(merged))

	for _, group := range [][]models.Track{existing, generated} {
		for _, t := range group {
			if seen[t.ID] {
				return nil, apperrors.DuplicateID(t.ID)
			}
			seen[t.ID] = true
			merged = append(merged, t)
		}
	}
	return merged, nil
}

// MaxIndex returns the highest numeric suffix among ids carrying prefix, or -1
// when no id matches.
func MaxIndex(tracks []models.Track, prefix string) int {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d+)$`)
	highest := -1
	for _, t := range tracks {
		m := pattern.FindStringSubmatch(t.ID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// Count is a name with the number of tracks carrying it.
type Count struct {
	Name  string
	Count int
}

// Stats summarises how a set of tracks is spread over themes and colors.
type Stats struct {
	Total  int
	Themes []Count
	Colors []Count
}

// ComputeStats tallies tracks per theme and per color, most frequent first.
func ComputeStats(tracks []models.Track) Stats {
	themes := make(map[string]int)
	colors := make(map[string]int)
	for _, t := range tracks {
		themes[t.Theme]++
		colors[t.ColorPreset]++
	}
	return Stats{
		Total:  len(tracks),
		Themes: sortedCounts(themes),
		Colors: sortedCounts(colors),
	}
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
