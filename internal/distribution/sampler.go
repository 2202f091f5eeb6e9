package distribution

import (
	"math/rand/v2"

	apperrors "nmcatalog/internal/errors"
	"nmcatalog/pkg/models"
)

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample expands the table into one assignment per counted track, each with
// a color drawn uniformly from its theme, then shuffles the whole sequence.
//
// A theme with a positive count and no colors is a configuration error and
// nothing is returned.
func Sample(table Table, rng *rand.Rand) ([]models.Assignment, error) {
	if err := Check(table); err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, table.Total())
	for _, theme := range table {
		for range theme.Count {
			color := theme.Colors[rng.IntN(len(theme.Colors))]
			assignments = append(assignments, models.Assignment{Theme: theme.Name, Color: color})
		}
	}

	rng.Shuffle(len(assignments), func(i, j int) {
		assignments[i], assignments[j] = assignments[j], assignments[i]
	})
	return assignments, nil
}

// Check validates the table without sampling.
func Check(table Table) error {
	seen := make(map[string]bool, len(table))
	for _, theme := range table {
		if theme.Name == "" {
			return apperrors.Configuration("theme with empty name")
		}
		if seen[theme.Name] {
			return apperrors.Configuration("theme %q listed more than once", theme.Name)
		}
		seen[theme.Name] = true

		if theme.Count < 0 {
			return apperrors.Configuration("theme %q has negative count %d", theme.Name, theme.Count)
		}
		if theme.Count > 0 && len(theme.Colors) == 0 {
			return apperrors.Configuration("theme %q has count %d but no colors", theme.Name, theme.Count)
		}
	}
	return nil
}
