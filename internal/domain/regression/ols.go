package regression

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OLS is ordinary least squares solved through a thin SVD, which gives the
// minimum-norm solution when columns are collinear or constant.
type OLS struct {
	fitIntercept bool
	normalize    bool
	rcond        float64
}

// NewOLS creates an OLS regressor with configuration options.
func NewOLS(opts ...Option) *OLS {
	o := &OLS{fitIntercept: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fit implements Regressor.
func (o *OLS) Fit(ctx context.Context, x [][]float64, y []float64) (*Model, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(x) != n {
		return nil, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(x), n)
	}
	p := len(x[0])
	if p == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrDimensionMismatch)
	}

	raw := mat.NewDense(n, p, nil)
	for i, row := range x {
		if len(row) != p {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), p)
		}
		raw.SetRow(i, row)
	}

	xMean := make([]float64, p)
	scale := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, raw)
		if o.fitIntercept {
			xMean[j] = stat.Mean(col, nil)
		}
		scale[j] = 1
		if o.normalize {
			floats.AddConst(-xMean[j], col)
			if norm := floats.Norm(col, 2); norm > 0 {
				scale[j] = norm
			}
		}
	}
	var yMean float64
	if o.fitIntercept {
		yMean = stat.Mean(y, nil)
	}

	a := mat.NewDense(n, p, nil)
	a.Apply(func(_, j int, v float64) float64 {
		return (v - xMean[j]) / scale[j]
	}, raw)
	b := mat.NewDense(n, 1, nil)
	for i, v := range y {
		b.Set(i, 0, v-yMean)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fit cancelled: %w", err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrFactorization
	}

	rcond := o.rcond
	if rcond == 0 {
		rcond = eps * float64(max(n, p))
	}

	coef := make([]float64, p)
	if rank := svd.Rank(rcond); rank > 0 {
		var w mat.Dense
		svd.SolveTo(&w, b, rank)
		for j := range coef {
			coef[j] = w.At(j, 0) / scale[j]
		}
	}

	return &Model{
		Intercept:    yMean - floats.Dot(xMean, coef),
		Coefficients: coef,
	}, nil
}

// eps is float64 machine epsilon.
var eps = math.Nextafter(1, 2) - 1
