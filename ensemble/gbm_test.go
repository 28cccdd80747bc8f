package ensemble

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGradientBoostingRegressor_FitsTrainingData(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	y := mat.NewDense(10, 1, []float64{5, 5, 5, 6, 6, 6, 7, 7, 7, 8})

	g := NewGradientBoostingRegressor(200, 0.1, 3)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if g.NStages() != 200 {
		t.Errorf("NStages() = %d, want 200", g.NStages())
	}

	pred, err := g.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		if math.Abs(pred.At(i, 0)-y.At(i, 0)) > 0.1 {
			t.Errorf("Sample %d: prediction %v too far from %v", i, pred.At(i, 0), y.At(i, 0))
		}
	}
}

func TestGradientBoostingRegressor_MoreRoundsFitTighter(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := mat.NewDense(8, 1, []float64{2, 4, 3, 5, 7, 6, 8, 9})

	sse := func(rounds int) float64 {
		g := NewGradientBoostingRegressor(rounds, 0.1, 2)
		if err := g.Fit(X, y); err != nil {
			t.Fatalf("Fit() error = %v", err)
		}
		pred, err := g.Predict(X)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		var sum float64
		for i := 0; i < 8; i++ {
			d := pred.At(i, 0) - y.At(i, 0)
			sum += d * d
		}
		return sum
	}

	if few, many := sse(5), sse(100); many >= few {
		t.Errorf("training SSE did not decrease: %v rounds=5 vs %v rounds=100", few, many)
	}
}

func TestGradientBoostingRegressor_SingleRoundNearMean(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{4, 4, 8, 8})

	// One damped stage moves at most 10% of the residual off the mean.
	g := NewGradientBoostingRegressor(1, 0.1, 1)
	if err := g.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	pred, err := g.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 4; i++ {
		if math.Abs(pred.At(i, 0)-6) > 0.21 {
			t.Errorf("Sample %d: prediction %v strayed too far from the mean", i, pred.At(i, 0))
		}
	}
}

func TestGradientBoostingRegressor_Validation(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{1, 2})

	if err := NewGradientBoostingRegressor(0, 0.1, 3).Fit(X, y); err == nil {
		t.Error("Fit() with zero rounds should error")
	}
	if err := NewGradientBoostingRegressor(10, 0, 3).Fit(X, y); err == nil {
		t.Error("Fit() with zero shrinkage should error")
	}
	if err := NewGradientBoostingRegressor(10, 1.5, 3).Fit(X, y); err == nil {
		t.Error("Fit() with shrinkage above 1 should error")
	}

	g := NewGradientBoostingRegressor(10, 0.1, 3)
	if _, err := g.Predict(X); err == nil {
		t.Error("Predict() before Fit() should error")
	}
}
