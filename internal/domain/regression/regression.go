// Package regression defines the contract for fitting a linear model to the
// feature table, and an ordinary-least-squares implementation backed by gonum.
package regression

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Regressor fits a linear model y ≈ Intercept + x·Coefficients.
type Regressor interface {
	// Fit estimates the model, honoring ctx for cancellation.
	Fit(ctx context.Context, x [][]float64, y []float64) (*Model, error)
}

// Model is a fitted linear model.
type Model struct {
	Intercept    float64
	Coefficients []float64
}

// Predict returns the model's estimate for each row of x.
func (m *Model) Predict(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("%w: row %d has %d features, model has %d", ErrDimensionMismatch, i, len(row), len(m.Coefficients))
		}
		out[i] = m.Intercept + floats.Dot(row, m.Coefficients)
	}
	return out, nil
}

// RSquared is the coefficient of determination of predicted against actual.
// It is 1 for a perfect fit and can be negative for a model worse than the mean.
func RSquared(actual, predicted []float64) float64 {
	return stat.RSquaredFrom(predicted, actual, nil)
}
