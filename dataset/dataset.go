// Package dataset loads the wine physicochemical dataset and provides the
// row/column subsetting the cross-validation harness is built on.
//
// The input is a single CSV with a wine-type discriminator column, eleven
// numeric feature columns, and an integer quality column in 3..9. The file
// is loaded once and filtered into one Dataset per wine color.
package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/pkg/errors"
)

// LabelColumn is the name of the ordinal target column.
const LabelColumn = "quality"

// TypeColumn is the name of the wine-color discriminator column.
const TypeColumn = "type"

// Dataset is an ordered collection of records with a fixed feature set and
// one integer-valued label per record. Feature order is fixed for the
// lifetime of an evaluation run.
type Dataset struct {
	// Name identifies the slice, e.g. "red" or "white".
	Name string
	// FeatureNames holds the feature column names, aligned with X's columns.
	FeatureNames []string
	// X is the n×p feature matrix.
	X *mat.Dense
	// Y holds the labels, integer-valued but stored as float64 so that
	// regression-style models consume them directly.
	Y []float64
}

// Load reads the combined wine CSV and returns one Dataset per wine color
// present in the file. The separator is detected from the header line
// (the UCI files use ';', combined exports commonly use ',').
func Load(path string) (map[string]*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: opening %s", path)
	}
	defer f.Close()

	head := make([]byte, 4096)
	n, _ := f.Read(head)
	sep := ','
	if strings.Count(string(head[:n]), ";") > strings.Count(string(head[:n]), ",") {
		sep = ';'
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, errors.Wrap(err, "dataset: rewinding input")
	}

	r := csv.NewReader(f)
	r.Comma = sep
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: parsing %s", path)
	}
	if len(rows) < 2 {
		return nil, errors.NewModelError("dataset.Load", "no data rows", errors.ErrEmptyData)
	}

	header := rows[0]
	typeIdx, labelIdx := -1, -1
	featureIdx := make([]int, 0, len(header))
	featureNames := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.Trim(strings.TrimSpace(name), `"`)
		switch name {
		case TypeColumn:
			typeIdx = i
		case LabelColumn:
			labelIdx = i
		default:
			featureIdx = append(featureIdx, i)
			featureNames = append(featureNames, name)
		}
	}
	if labelIdx < 0 {
		return nil, errors.NewValueError("dataset.Load", "missing quality column")
	}
	if len(featureIdx) == 0 {
		return nil, errors.NewValueError("dataset.Load", "no feature columns")
	}

	type builder struct {
		x []float64
		y []float64
	}
	builders := map[string]*builder{}
	order := []string{}

	for lineNo, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.Newf("dataset: row %d has %d columns, header has %d", lineNo+2, len(row), len(header))
		}
		color := "all"
		if typeIdx >= 0 {
			color = strings.TrimSpace(row[typeIdx])
		}
		b := builders[color]
		if b == nil {
			b = &builder{}
			builders[color] = b
			order = append(order, color)
		}
		for _, idx := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "dataset: row %d column %q", lineNo+2, header[idx])
			}
			b.x = append(b.x, v)
		}
		label, err := strconv.ParseFloat(strings.TrimSpace(row[labelIdx]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d quality", lineNo+2)
		}
		if label != math.Trunc(label) {
			return nil, errors.NewValueError("dataset.Load", "quality labels must be integers")
		}
		b.y = append(b.y, label)
	}

	out := make(map[string]*Dataset, len(builders))
	for _, color := range order {
		b := builders[color]
		ds := &Dataset{
			Name:         color,
			FeatureNames: featureNames,
			X:            mat.NewDense(len(b.y), len(featureIdx), b.x),
			Y:            b.y,
		}
		if err := ds.Validate(); err != nil {
			return nil, err
		}
		out[color] = ds
	}
	return out, nil
}

// Validate enforces the data-shape invariants: non-empty, aligned X and Y,
// and no missing (NaN/Inf) values.
func (d *Dataset) Validate() error {
	if d.X == nil || len(d.Y) == 0 {
		return errors.NewModelError("dataset.Validate", "empty dataset", errors.ErrEmptyData)
	}
	r, c := d.X.Dims()
	if r != len(d.Y) {
		return errors.NewDimensionError("dataset.Validate", r, len(d.Y), 0)
	}
	if len(d.FeatureNames) != c {
		return errors.NewDimensionError("dataset.Validate", c, len(d.FeatureNames), 1)
	}
	if err := errors.CheckMatrix("dataset.Validate", d.X, r, c); err != nil {
		return err
	}
	return errors.CheckValues("dataset.Validate", d.Y, 0)
}

// NumRows returns the record count.
func (d *Dataset) NumRows() int {
	r, _ := d.X.Dims()
	return r
}

// NumFeatures returns the feature count.
func (d *Dataset) NumFeatures() int {
	_, c := d.X.Dims()
	return c
}

// YMatrix returns the labels as an n×1 matrix for estimator Fit calls.
func (d *Dataset) YMatrix() *mat.Dense {
	out := mat.NewDense(len(d.Y), 1, nil)
	for i, v := range d.Y {
		out.Set(i, 0, v)
	}
	return out
}

// Classes returns the distinct label values in ascending order.
func (d *Dataset) Classes() []float64 {
	seen := map[float64]struct{}{}
	for _, v := range d.Y {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

// Subset returns a new Dataset containing the given rows, in order.
// Indices must be valid; the fold splitter guarantees this.
func (d *Dataset) Subset(indices []int) *Dataset {
	_, c := d.X.Dims()
	x := mat.NewDense(len(indices), c, nil)
	y := make([]float64, len(indices))
	for i, idx := range indices {
		x.SetRow(i, d.X.RawRowView(idx))
		y[i] = d.Y[idx]
	}
	return &Dataset{
		Name:         d.Name,
		FeatureNames: d.FeatureNames,
		X:            x,
		Y:            y,
	}
}

// SelectFeatures returns a new Dataset restricted to the given feature
// columns, in the given order. Used by best-subset selection.
func (d *Dataset) SelectFeatures(cols []int) (*Dataset, error) {
	r, c := d.X.Dims()
	names := make([]string, len(cols))
	x := mat.NewDense(r, len(cols), nil)
	for j, col := range cols {
		if col < 0 || col >= c {
			return nil, errors.NewValueError("dataset.SelectFeatures", "feature index out of range")
		}
		names[j] = d.FeatureNames[col]
		for i := 0; i < r; i++ {
			x.Set(i, j, d.X.At(i, col))
		}
	}
	labels := make([]float64, r)
	copy(labels, d.Y)
	return &Dataset{
		Name:         d.Name,
		FeatureNames: names,
		X:            x,
		Y:            labels,
	}, nil
}
