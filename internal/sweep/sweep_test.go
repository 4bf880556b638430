package sweep

import (
	"context"
	"testing"

	"github.com/san-kum/primal/internal/config"
	"github.com/san-kum/primal/internal/experiment"
	"github.com/san-kum/primal/internal/primal"
)

func smallConfig() *config.Config {
	return &config.Config{
		Out:     "unused.csv",
		Workers: 1,
		Modes:   []string{"residual", "parammod", "control", "timewarp"},
		Alphas:  []float64{0, 0.1},
		Lambdas: []float64{1.0},
		Models: []config.ModelConfig{
			{Name: "mm", Init: []float64{1.0, 0.0}, Dt: 1e-2, Steps: 100},
			{Name: "sir", Init: []float64{999, 1, 0}, Dt: 1e-2, Steps: 100},
		},
	}
}

func TestSweepRowCountAndOrder(t *testing.T) {
	d := NewDriver(experiment.NewRegistry(), nil, 1)

	rows, err := d.Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	// 4 modes x 2 alphas x 1 lambda x 2 models = 16 runs; the 8 sir runs each
	// add a conservation diagnostic row.
	if len(rows) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(rows))
	}

	if rows[0].Model != "mm" || rows[0].Mode != primal.Residual || rows[0].Alpha != 0 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Model != "sir" {
		t.Errorf("model should iterate innermost, got %s second", rows[1].Model)
	}
	if rows[2].Model != "sir"+MassErrSuffix {
		t.Errorf("sir run should be followed by its diagnostic row, got %s", rows[2].Model)
	}
	if last := rows[len(rows)-1]; last.Mode != primal.TimeWarp {
		t.Errorf("timewarp should come last, got %s", last.Mode)
	}
}

func TestSweepRowDimensions(t *testing.T) {
	d := NewDriver(experiment.NewRegistry(), nil, 2)

	rows, err := d.Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	for _, r := range rows {
		want := 0
		switch r.Model {
		case "mm":
			want = 2
		case "sir":
			want = 3
		case "sir" + MassErrSuffix:
			want = 1
		default:
			t.Fatalf("unexpected model in rows: %s", r.Model)
		}
		if len(r.Values) != want {
			t.Errorf("%s row has %d values, want %d", r.Model, len(r.Values), want)
		}
	}
}

func TestSweepParallelMatchesSerial(t *testing.T) {
	// Runs share no state, so worker count must not change the output.
	serial, err := NewDriver(experiment.NewRegistry(), nil, 1).Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("serial sweep failed: %v", err)
	}
	parallel, err := NewDriver(experiment.NewRegistry(), nil, 4).Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("parallel sweep failed: %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("row counts differ: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i].Model != parallel[i].Model || serial[i].Mode != parallel[i].Mode {
			t.Fatalf("row %d ordering differs: %+v vs %+v", i, serial[i], parallel[i])
		}
		for k := range serial[i].Values {
			if serial[i].Values[k] != parallel[i].Values[k] {
				t.Errorf("row %d value %d differs: %g vs %g",
					i, k, serial[i].Values[k], parallel[i].Values[k])
			}
		}
	}
}

func TestSweepZeroAlphaConservation(t *testing.T) {
	d := NewDriver(experiment.NewRegistry(), nil, 1)

	rows, err := d.Run(context.Background(), smallConfig())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	for _, r := range rows {
		if r.Model == "sir"+MassErrSuffix && r.Alpha == 0 {
			if r.Values[0] > 1e-6 {
				t.Errorf("%s alpha=0: conservation error %.3e exceeds tolerance", r.Mode, r.Values[0])
			}
		}
	}
}

func TestSweepRejectsInvalidConfig(t *testing.T) {
	d := NewDriver(experiment.NewRegistry(), nil, 1)

	cfg := smallConfig()
	cfg.Models[0].Name = "teapot"
	if _, err := d.Run(context.Background(), cfg); err == nil {
		t.Error("unknown model should fail the sweep")
	}

	cfg = smallConfig()
	cfg.Modes = nil
	if _, err := d.Run(context.Background(), cfg); err == nil {
		t.Error("empty mode grid should fail validation")
	}
}

func TestSweepContextCancel(t *testing.T) {
	d := NewDriver(experiment.NewRegistry(), nil, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Run(ctx, smallConfig()); err == nil {
		t.Error("cancelled context should abort the sweep")
	}
}
