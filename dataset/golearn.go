package dataset

import (
	"strconv"

	"github.com/sjwhitworth/golearn/base"

	"github.com/oenolab/winebench/pkg/errors"
)

// ToInstances converts the dataset into golearn DenseInstances: one float
// attribute per feature and a categorical class attribute holding the
// quality label. The golearn-backed models (KNN, ID3 tree, random forest)
// consume this representation.
//
// classValues fixes the categorical vocabulary so that train and test
// grids built from different folds stay compatible; pass the full
// dataset's Classes().
func (d *Dataset) ToInstances(classValues []float64) (*base.DenseInstances, error) {
	rows, cols := d.X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError("dataset.ToInstances", "empty dataset", errors.ErrEmptyData)
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, 0, cols+1)
	for _, name := range d.FeatureNames {
		specs = append(specs, inst.AddAttribute(base.NewFloatAttribute(name)))
	}

	classAttr := base.NewCategoricalAttribute()
	classAttr.SetName(LabelColumn)
	// Register the full label vocabulary up front, in ascending order.
	for _, v := range classValues {
		classAttr.GetSysValFromString(formatLabel(v))
	}
	classSpec := inst.AddAttribute(classAttr)
	if err := inst.AddClassAttribute(classAttr); err != nil {
		return nil, errors.Wrap(err, "dataset.ToInstances: class attribute")
	}

	if err := inst.Extend(rows); err != nil {
		return nil, errors.Wrap(err, "dataset.ToInstances: allocating rows")
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			inst.Set(specs[j], i, base.PackFloatToBytes(d.X.At(i, j)))
		}
		inst.Set(classSpec, i, classAttr.GetSysValFromString(formatLabel(d.Y[i])))
	}
	return inst, nil
}

// LabelsFromInstances extracts predicted quality labels from a golearn
// prediction grid back into float64 values.
func LabelsFromInstances(preds base.FixedDataGrid) ([]float64, error) {
	_, rows := preds.Size()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		s := base.GetClass(preds, i)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: parsing predicted class %q", s)
		}
		out[i] = v
	}
	return out, nil
}

func formatLabel(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
