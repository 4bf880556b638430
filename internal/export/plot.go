// Package export writes trajectory plots as image files (format chosen by
// extension: .png, .svg, .pdf).
package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SaveImage plots every state component against time and writes the result
// to path.
func SaveImage(path, title string, times []float64, states [][]float64) error {
	if len(states) == 0 {
		return fmt.Errorf("export: no samples to plot")
	}
	if len(times) != len(states) {
		return fmt.Errorf("export: %d times for %d states", len(times), len(states))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time"
	p.Y.Label.Text = "state"

	for col := 0; col < len(states[0]); col++ {
		xys := make(plotter.XYs, 0, len(times))
		for i := range times {
			if col >= len(states[i]) {
				continue
			}
			xys = append(xys, plotter.XY{X: times[i], Y: states[i][col]})
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(col)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("x%d", col), line)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
