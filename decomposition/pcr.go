// Package decomposition implements principal component regression.
package decomposition

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/linear"
	"github.com/oenolab/winebench/pkg/errors"
)

// PCR projects the features onto their leading principal components and
// fits ordinary least squares on the scores. NComponents is chosen by the
// caller, typically by nested cross-validation on the training partition.
type PCR struct {
	model.BaseEstimator

	NComponents int

	means     []float64
	loadings  *mat.Dense // p×NComponents
	reg       *linear.LinearRegression
	nFeatures int
}

// NewPCR creates an unfitted PCR model keeping nComponents components.
func NewPCR(nComponents int) *PCR {
	return &PCR{NComponents: nComponents}
}

// Fit computes the principal components of X and regresses y on the
// leading NComponents scores.
func (p *PCR) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PCR.Fit", "empty data", errors.ErrEmptyData)
	}
	if p.NComponents < 1 || p.NComponents > c {
		return errors.NewValidationError("n_components", "must be in 1..p", p.NComponents)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return errors.NewModelError("PCR.Fit", "principal component decomposition failed", nil)
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// stat.PC centers internally; keep the training means to center
	// prediction inputs identically.
	p.means = make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		p.means[j] = sum / float64(r)
	}

	p.loadings = mat.NewDense(c, p.NComponents, nil)
	for j := 0; j < c; j++ {
		for k := 0; k < p.NComponents; k++ {
			p.loadings.Set(j, k, vectors.At(j, k))
		}
	}

	scores := p.project(X)
	p.reg = linear.NewLinearRegression()
	if err := p.reg.Fit(scores, y); err != nil {
		return errors.Wrap(err, "PCR.Fit: regressing on scores")
	}

	p.nFeatures = c
	p.SetFitted()
	return nil
}

// Predict projects X onto the fitted components and applies the score
// regression.
func (p *PCR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PCR", "Predict")
	}
	_, c := X.Dims()
	if c != p.nFeatures {
		return nil, errors.NewDimensionError("PCR.Predict", p.nFeatures, c, 1)
	}
	return p.reg.Predict(p.project(X))
}

func (p *PCR) project(X mat.Matrix) *mat.Dense {
	r, c := X.Dims()
	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, X.At(i, j)-p.means[j])
		}
	}
	scores := mat.NewDense(r, p.NComponents, nil)
	scores.Mul(centered, p.loadings)
	return scores
}
