package errors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("LDA", "Predict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LDA")
	assert.Contains(t, err.Error(), "Predict")

	var nf *NotFittedError
	assert.True(t, As(err, &nf))
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("op", 3, 5, 1)
	var de *DimensionError
	require.True(t, As(err, &de))
	assert.Equal(t, 3, de.Expected)
	assert.Equal(t, 5, de.Got)
}

func TestDegenerateFoldError(t *testing.T) {
	err := NewDegenerateFoldError(10, 2, []float64{5})
	var df *DegenerateFoldError
	require.True(t, As(err, &df))
	assert.Equal(t, int64(10), df.Seed)
	assert.Equal(t, 2, df.Fold)
	assert.Equal(t, []float64{5}, df.Classes)
	assert.Contains(t, err.Error(), "fold")
}

func TestWrapPreservesSentinels(t *testing.T) {
	err := Wrapf(ErrSingleClass, "dataset %s", "red")
	assert.True(t, Is(err, ErrSingleClass))
	assert.Contains(t, err.Error(), "red")
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	warning := NewConvergenceWarning("Lasso", 1000, "")
	Warn(warning)
	assert.Equal(t, warning, captured)
}

func TestCheckValues(t *testing.T) {
	assert.NoError(t, CheckValues("op", []float64{1, 2, 3}, 0))

	err := CheckValues("op", []float64{1, math.NaN()}, 4)
	require.Error(t, err)
	var ni *NumericalInstabilityError
	assert.True(t, As(err, &ni))

	assert.Error(t, CheckValues("op", []float64{math.Inf(1)}, 0))
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "exploding")
		panic("boom")
	}
	err := run()
	require.Error(t, err)

	var pe *PanicError
	require.True(t, As(err, &pe))
	assert.Contains(t, err.Error(), "exploding")
	assert.Contains(t, err.Error(), "boom")
}

func TestRecoverNoPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "calm")
		return nil
	}
	assert.NoError(t, run())
}
