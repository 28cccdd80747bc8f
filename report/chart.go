package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/pkg/errors"
)

// SaveChart writes a grouped bar chart of the three metrics per model to
// path. The image format follows the path extension (png, svg, pdf).
func SaveChart(path, title string, results []*crossval.Result) error {
	if len(results) == 0 {
		return errors.NewValueError("report.SaveChart", "no results to plot")
	}

	names := make([]string, len(results))
	accs := make(plotter.Values, len(results))
	aucs := make(plotter.Values, len(results))
	maes := make(plotter.Values, len(results))
	for i, res := range results {
		names[i] = res.Model
		accs[i] = res.MeanAccuracy
		aucs[i] = res.MeanAUC
		maes[i] = res.MeanMAE
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "metric value"

	width := vg.Points(10)
	groups := []struct {
		label  string
		values plotter.Values
		offset vg.Length
	}{
		{"accuracy", accs, -width},
		{"auc", aucs, 0},
		{"mae", maes, width},
	}
	for i, g := range groups {
		bars, err := plotter.NewBarChart(g.values, width)
		if err != nil {
			return errors.Wrap(err, "report: building bar chart")
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = g.offset
		p.Add(bars)
		p.Legend.Add(g.label, bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)

	if err := p.Save(9*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "report: saving %s", path)
	}
	return nil
}
