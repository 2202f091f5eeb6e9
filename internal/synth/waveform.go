package synth

import "fmt"

// Waveform is the brainwave target derived from a track index.
type Waveform struct {
	Category string
	Band     string
	title    func(i int) string
}

// Title returns the track title for index i.
func (w Waveform) Title(i int) string {
	return w.title(i)
}

// waveforms is indexed by i mod 5 and covers every index.
var waveforms = [5]Waveform{
	{Category: "Delta", Band: "0.5-3Hz", title: func(i int) string { return fmt.Sprintf("Delta Sleep Wave %d", i/5) }},
	{Category: "Theta", Band: "4-7Hz", title: func(i int) string { return fmt.Sprintf("Theta Dream Space %d", i) }},
	{Category: "Alpha", Band: "8-12Hz", title: func(i int) string { return fmt.Sprintf("Alpha Calm Flow %d", i) }},
	{Category: "Theta-Delta", Band: "2-6Hz", title: func(i int) string { return fmt.Sprintf("Deep Rest Blend %d", i) }},
	{Category: "Delta", Band: "1-4Hz", title: func(i int) string { return fmt.Sprintf("Gentle Night %d", i) }},
}

// WaveformFor returns the waveform row for a non-negative index.
func WaveformFor(i int) Waveform {
	return waveforms[i%5]
}
