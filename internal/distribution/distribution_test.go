package distribution

import (
	"testing"

	apperrors "nmcatalog/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 100, table.Total())
	assert.Equal(t, []string{"moonlight", "zenfocus", "ocean", "creativeflow", "brainboost", "mentalfocus"}, table.Names())

	ocean, ok := table.Lookup("ocean")
	require.True(t, ok)
	assert.Equal(t, 20, ocean.Count)
	assert.True(t, table.AllowsColor("ocean", "arctic"))
	assert.False(t, table.AllowsColor("ocean", "electric"))
	assert.False(t, table.AllowsColor("unknown", "electric"))
}

func TestDefaultTableDoesNotShareColorSlices(t *testing.T) {
	table := DefaultTable()
	table[0].Colors[0] = "changed"

	zen, _ := table.Lookup("zenfocus")
	assert.Equal(t, "electric", zen.Colors[0])
	assert.Equal(t, "electric", DefaultTable()[0].Colors[0])
}

func TestSampleExactCounts(t *testing.T) {
	table := DefaultTable()

	for _, seed := range []uint64{1, 2, 42, 1 << 40} {
		assignments, err := Sample(table, NewRand(seed))
		require.NoError(t, err)
		require.Len(t, assignments, table.Total())

		counts := make(map[string]int)
		for _, a := range assignments {
			counts[a.Theme]++
			assert.True(t, table.AllowsColor(a.Theme, a.Color), "seed %d: %s not allowed for %s", seed, a.Color, a.Theme)
		}
		for _, theme := range table {
			assert.Equal(t, theme.Count, counts[theme.Name], "seed %d theme %s", seed, theme.Name)
		}
	}
}

func TestSampleReproducibleWithSeed(t *testing.T) {
	first, err := Sample(DefaultTable(), NewRand(7))
	require.NoError(t, err)
	second, err := Sample(DefaultTable(), NewRand(7))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSampleShuffles(t *testing.T) {
	assignments, err := Sample(DefaultTable(), NewRand(3))
	require.NoError(t, err)

	// Unshuffled output would put all twenty moonlight tracks first.
	moonlightPrefix := 0
	for _, a := range assignments {
		if a.Theme != "moonlight" {
			break
		}
		moonlightPrefix++
	}
	assert.Less(t, moonlightPrefix, 20)
}

func TestSampleEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantLen int
		wantErr bool
	}{
		{
			name:    "single color theme",
			table:   Table{{Name: "A", Count: 2, Colors: []string{"red"}}},
			wantLen: 2,
		},
		{
			name: "zero count contributes nothing",
			table: Table{
				{Name: "A", Count: 0, Colors: []string{"red"}},
				{Name: "B", Count: 3, Colors: []string{"blue"}},
			},
			wantLen: 3,
		},
		{
			name:    "zero count with no colors is fine",
			table:   Table{{Name: "A", Count: 0}},
			wantLen: 0,
		},
		{
			name:    "positive count with no colors",
			table:   Table{{Name: "A", Count: 1}},
			wantErr: true,
		},
		{
			name:    "negative count",
			table:   Table{{Name: "A", Count: -1, Colors: []string{"red"}}},
			wantErr: true,
		},
		{
			name: "duplicate theme",
			table: Table{
				{Name: "A", Count: 1, Colors: []string{"red"}},
				{Name: "A", Count: 1, Colors: []string{"red"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments, err := Sample(tt.table, NewRand(1))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrConfiguration))
				assert.Nil(t, assignments)
				return
			}
			require.NoError(t, err)
			assert.Len(t, assignments, tt.wantLen)
		})
	}
}
