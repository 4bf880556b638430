package storage

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/san-kum/primal/internal/sweep"
)

// SweepHeader is the fixed header of the sweep result sink. Rows carry as
// many value columns as their model has state components; non-finite runs get
// a trailing "nonfinite" marker.
var SweepHeader = []string{"model", "mode", "alpha", "lambda", "val1", "val2", "val3"}

// WriteSweep writes all rows to one CSV file in the order given. The file is
// created fresh; flushing and closing happen on every exit path so a failed
// sweep never leaves a silently truncated sink behind.
func WriteSweep(path string, rows []sweep.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write(SweepHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Model,
			string(r.Mode),
			strconv.FormatFloat(r.Alpha, 'g', -1, 64),
			strconv.FormatFloat(r.Lambda, 'g', -1, 64),
		}
		for _, v := range r.Values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if r.NonFinite {
			record = append(record, "nonfinite")
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
