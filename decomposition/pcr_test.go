package decomposition

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/linear"
)

func regressionData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0.2, 1.1,
		1.1, 0.4,
		2.3, 2.0,
		3.0, 0.9,
		3.8, 2.6,
		4.4, 1.2,
		5.1, 3.0,
		6.2, 2.2,
	})
	y := mat.NewDense(8, 1, nil)
	for i := 0; i < 8; i++ {
		y.Set(i, 0, 2+1.5*X.At(i, 0)-0.7*X.At(i, 1))
	}
	return X, y
}

func TestPCR_FullComponentsMatchOLS(t *testing.T) {
	X, y := regressionData()

	pcr := NewPCR(2)
	if err := pcr.Fit(X, y); err != nil {
		t.Fatalf("PCR Fit() error = %v", err)
	}
	ols := linear.NewLinearRegression()
	if err := ols.Fit(X, y); err != nil {
		t.Fatalf("OLS Fit() error = %v", err)
	}

	// Keeping every component spans the same column space as OLS.
	pcrPred, err := pcr.Predict(X)
	if err != nil {
		t.Fatalf("PCR Predict() error = %v", err)
	}
	olsPred, err := ols.Predict(X)
	if err != nil {
		t.Fatalf("OLS Predict() error = %v", err)
	}
	for i := 0; i < 8; i++ {
		if math.Abs(pcrPred.At(i, 0)-olsPred.At(i, 0)) > 1e-6 {
			t.Errorf("Prediction %d: pcr %v vs ols %v", i, pcrPred.At(i, 0), olsPred.At(i, 0))
		}
	}
}

func TestPCR_TruncatedComponents(t *testing.T) {
	X, y := regressionData()

	pcr := NewPCR(1)
	if err := pcr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	pred, err := pcr.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	r, c := pred.Dims()
	if r != 8 || c != 1 {
		t.Errorf("Predict() shape = (%d, %d), want (8, 1)", r, c)
	}
}

func TestPCR_InvalidComponentCount(t *testing.T) {
	X, y := regressionData()

	for _, k := range []int{0, 3} {
		pcr := NewPCR(k)
		if err := pcr.Fit(X, y); err == nil {
			t.Errorf("Fit() with %d components should error", k)
		}
	}
}

func TestPCR_NotFitted(t *testing.T) {
	pcr := NewPCR(1)
	if _, err := pcr.Predict(mat.NewDense(1, 2, []float64{0, 0})); err == nil {
		t.Fatal("Predict() before Fit() should error")
	}
}
