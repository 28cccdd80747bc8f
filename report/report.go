// Package report renders the benchmark results as a fixed-width text
// table and as a grouped bar chart image.
package report

import (
	"fmt"
	"io"

	"github.com/oenolab/winebench/crossval"
)

// WriteTable prints one results table for a dataset slice. Models appear
// in evaluation order.
func WriteTable(w io.Writer, name string, results []*crossval.Result) error {
	if _, err := fmt.Fprintf(w, "dataset: %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %10s %10s %10s %7s %9s\n",
		"model", "accuracy", "auc", "mae", "folds", "skipped"); err != nil {
		return err
	}
	for _, res := range results {
		if _, err := fmt.Fprintf(w, "%-14s %10.4f %10.4f %10.4f %7d %9d\n",
			res.Model, res.MeanAccuracy, res.MeanAUC, res.MeanMAE,
			res.Folds, res.SkippedAUCFolds); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
