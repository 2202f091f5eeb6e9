// Package distribution holds the theme table that decides how many tracks
// each visual theme receives and which color presets it may use.
package distribution

import "slices"

// Theme is one row of the distribution table.
type Theme struct {
	Name   string   `toml:"name" validate:"required"`
	Count  int      `toml:"count" validate:"gte=0"`
	Colors []string `toml:"colors"`
}

// Table is an ordered list of themes. Order matters: it is the order replicas
// are laid out before shuffling, which keeps a seeded run reproducible.
type Table []Theme

var softColors = []string{"electric", "softPink", "softGreen", "softYellow"}

// DefaultTable returns the distribution used for the 10-100 catalog extension.
func DefaultTable() Table {
	return Table{
		{Name: "moonlight", Count: 20, Colors: slices.Clone(softColors)},
		{Name: "zenfocus", Count: 20, Colors: slices.Clone(softColors)},
		{Name: "ocean", Count: 20, Colors: []string{"midnight", "tropical", "sunset", "arctic", "emerald"}},
		{Name: "creativeflow", Count: 20, Colors: slices.Clone(softColors)},
		{Name: "brainboost", Count: 15, Colors: slices.Clone(softColors)},
		{Name: "mentalfocus", Count: 5, Colors: slices.Clone(softColors)},
	}
}

// Total returns the number of tracks the table asks for.
func (t Table) Total() int {
	total := 0
	for _, theme := range t {
		total += theme.Count
	}
	return total
}

// Names returns theme names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, theme := range t {
		names = append(names, theme.Name)
	}
	return names
}

// Lookup finds a theme by name.
func (t Table) Lookup(name string) (Theme, bool) {
	for _, theme := range t {
		if theme.Name == name {
			return theme, true
		}
	}
	return Theme{}, false
}

// AllowsColor reports whether color is one of the theme's presets.
func (t Table) AllowsColor(theme, color string) bool {
	th, ok := t.Lookup(theme)
	if !ok {
		return false
	}
	return slices.Contains(th.Colors, color)
}
