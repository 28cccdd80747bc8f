package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/oenolab/winebench/core/model"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/decomposition"
	"github.com/oenolab/winebench/pkg/errors"
	"github.com/oenolab/winebench/pkg/log"
	"github.com/oenolab/winebench/preprocessing"
)

// PCRegression wraps principal component regression. The component count
// is chosen per training partition by nested cross-validation: every
// count 1..p is scored by mean squared prediction error and the smallest
// error wins, ties going to the smaller count.
func PCRegression(innerK int) crossval.FitFunc {
	return func(X mat.Matrix, y []float64) (crossval.PredictFunc, error) {
		scaler := preprocessing.NewStandardScaler()
		Xs, err := scaler.FitTransform(X)
		if err != nil {
			return nil, err
		}
		_, p := Xs.Dims()

		bestK := 1
		bestErr := 0.0
		for k := 1; k <= p; k++ {
			cvErr, err := innerCVError(Xs, y, innerK, func() model.Regressor {
				return decomposition.NewPCR(k)
			})
			if err != nil {
				return nil, errors.Wrap(err, "pcr: selecting component count")
			}
			if k == 1 || cvErr < bestErr {
				bestK = k
				bestErr = cvErr
			}
		}
		log.GetLogger().Debug("component count selected",
			log.ModelNameKey, "pcr", log.ComponentsKey, bestK)

		reg := decomposition.NewPCR(bestK)
		if err := reg.Fit(Xs, yColumn(y)); err != nil {
			return nil, err
		}
		return func(Xt mat.Matrix) ([]float64, error) {
			Xts, err := scaler.Transform(Xt)
			if err != nil {
				return nil, err
			}
			pred, err := reg.Predict(Xts)
			if err != nil {
				return nil, err
			}
			return flatten(pred), nil
		}, nil
	}
}
