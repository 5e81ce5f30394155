package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
)

// Series renders a line graph of a single time series.
func Series(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// EnergyError renders the relative energy error |E-E0|/|E0| of a recorded
// run on a log10 scale, the usual way to read symplectic behavior: the
// curve should oscillate around a constant level instead of climbing.
func EnergyError(energies []float64) string {
	if len(energies) < 2 || energies[0] == 0 {
		return ""
	}
	e0 := energies[0]
	data := make([]float64, 0, len(energies)-1)
	for _, e := range energies[1:] {
		rel := math.Abs(e-e0) / math.Abs(e0)
		if rel < 1e-16 {
			rel = 1e-16
		}
		data = append(data, math.Log10(rel))
	}
	return Series(data, "log10 |dE/E|")
}

// Trajectories draws the paths of all bodies of a recorded run projected
// onto the xy plane, centered on the frame origin of the run. States are
// flattened rows of x, y, z, vx, vy, vz per body.
func Trajectories(states [][]float64, cols, rows int) string {
	if len(states) == 0 || len(states[0]) < 6 {
		return ""
	}
	bodies := len(states[0]) / 6

	extent := 0.0
	for _, row := range states {
		for b := 0; b < bodies; b++ {
			x, y := row[6*b], row[6*b+1]
			if r := math.Max(math.Abs(x), math.Abs(y)); r > extent {
				extent = r
			}
		}
	}

	c := NewCanvas(cols, rows)
	f := NewFrame(c, 0, 0, 1.05*extent)
	for b := 0; b < bodies; b++ {
		for i := 1; i < len(states); i++ {
			f.Segment(states[i-1][6*b], states[i-1][6*b+1],
				states[i][6*b], states[i][6*b+1])
		}
	}

	last := states[len(states)-1]
	for b := 0; b < bodies; b++ {
		f.Mark(last[6*b], last[6*b+1])
	}

	return fmt.Sprintf("%sextent: %.3g\n", c.String(), extent)
}
