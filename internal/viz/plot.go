package viz

import "github.com/guptarohit/asciigraph"

const (
	plotWidth  = 80
	plotHeight = 10
)

// Trajectory renders one state column as a terminal graph.
func Trajectory(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// Column extracts one component across a stored trajectory, tolerating
// shorter rows from variable-width files.
func Column(states [][]float64, idx int) []float64 {
	data := make([]float64, len(states))
	for i := range states {
		if idx < len(states[i]) {
			data[i] = states[i][idx]
		}
	}
	return data
}
