package discriminant

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 2, []float64{
		0.0, 0.1,
		0.2, 0.0,
		0.1, 0.2,
		-0.1, 0.1,
		0.0, -0.2,
		5.0, 5.1,
		5.2, 5.0,
		5.1, 5.2,
		4.9, 5.1,
		5.0, 4.8,
	})
	y := mat.NewDense(10, 1, []float64{5, 5, 5, 5, 5, 7, 7, 7, 7, 7})
	return X, y
}

func TestLDA_FitPredict(t *testing.T) {
	X, y := separableData()

	lda := NewLDA()
	if err := lda.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	pred, err := lda.Predict(X)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		if pred.At(i, 0) != y.At(i, 0) {
			t.Errorf("Sample %d: expected %v, got %v", i, y.At(i, 0), pred.At(i, 0))
		}
	}

	classes := lda.Classes()
	if len(classes) != 2 || classes[0] != 5 || classes[1] != 7 {
		t.Errorf("Classes() = %v, want [5 7]", classes)
	}
}

func TestLDA_PredictProba(t *testing.T) {
	X, y := separableData()

	lda := NewLDA()
	if err := lda.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probas, err := lda.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	rows, cols := probas.Dims()
	if rows != 10 || cols != 2 {
		t.Fatalf("Expected shape (10, 2), got (%d, %d)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += probas.At(i, j)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Row %d probabilities sum to %v", i, sum)
		}
	}
	// A deep class-5 point should be confidently class 5.
	if probas.At(0, 0) < 0.99 {
		t.Errorf("P(class 5) = %v, want > 0.99", probas.At(0, 0))
	}
}

func TestLDA_NotFitted(t *testing.T) {
	lda := NewLDA()
	if _, err := lda.Predict(mat.NewDense(1, 2, []float64{0, 0})); err == nil {
		t.Fatal("Predict() before Fit() should error")
	}
}

func TestLDA_SingleClass(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2})
	y := mat.NewDense(3, 1, []float64{5, 5, 5})

	lda := NewLDA()
	if err := lda.Fit(X, y); err == nil {
		t.Fatal("Fit() with one class should error")
	}
}
