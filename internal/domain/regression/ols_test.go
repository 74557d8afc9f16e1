package regression_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/teamovr/internal/domain/regression"
	. "github.com/smartystreets/goconvey/convey"
)

const tol = 1e-8

// linearData returns rows x and y = 3 + 2·x0 - 0.5·x1 + 0·x2 with x2 constant.
func linearData() ([][]float64, []float64) {
	x := [][]float64{
		{1, 7, 20},
		{2, 3, 20},
		{3, 9, 20},
		{4, 1, 20},
		{5, 5, 20},
		{6, 2, 20},
	}
	y := make([]float64, len(x))
	for i, r := range x {
		y[i] = 3 + 2*r[0] - 0.5*r[1]
	}
	return x, y
}

func TestOLS_Fit(t *testing.T) {
	Convey("Given noiseless linear data with a constant column", t, func() {
		x, y := linearData()

		Convey("When fitting with normalization", func() {
			m, err := regression.NewOLS(regression.WithNormalize(true)).Fit(context.Background(), x, y)

			Convey("Then the exact coefficients are recovered", func() {
				So(err, ShouldBeNil)
				So(m.Intercept, ShouldAlmostEqual, 3, tol)
				So(m.Coefficients[0], ShouldAlmostEqual, 2, tol)
				So(m.Coefficients[1], ShouldAlmostEqual, -0.5, tol)
				So(m.Coefficients[2], ShouldAlmostEqual, 0, tol)
			})

			Convey("And R² is 1", func() {
				pred, err := m.Predict(x)
				So(err, ShouldBeNil)
				So(regression.RSquared(y, pred), ShouldAlmostEqual, 1, tol)
			})
		})

		Convey("When fitting with and without normalization", func() {
			a, err := regression.NewOLS(regression.WithNormalize(true)).Fit(context.Background(), x, y)
			So(err, ShouldBeNil)
			b, err := regression.NewOLS(regression.WithNormalize(false)).Fit(context.Background(), x, y)
			So(err, ShouldBeNil)

			Convey("Then predictions agree", func() {
				pa, _ := a.Predict(x)
				pb, _ := b.Predict(x)
				for i := range pa {
					So(pa[i], ShouldAlmostEqual, pb[i], 1e-6)
				}
			})
		})
	})

	Convey("Given noisy data", t, func() {
		x := [][]float64{{1}, {2}, {3}, {4}}
		y := []float64{1, 3, 2, 4}

		m, err := regression.NewOLS().Fit(context.Background(), x, y)

		Convey("Then the fit matches the closed-form simple regression", func() {
			So(err, ShouldBeNil)
			// slope = cov(x,y)/var(x) = 0.8, intercept = 2.5 - 0.8*2.5 = 0.5
			So(m.Coefficients[0], ShouldAlmostEqual, 0.8, tol)
			So(m.Intercept, ShouldAlmostEqual, 0.5, tol)

			pred, _ := m.Predict(x)
			r2 := regression.RSquared(y, pred)
			So(r2, ShouldBeGreaterThan, 0)
			So(r2, ShouldBeLessThan, 1)
			So(r2, ShouldAlmostEqual, 0.64, tol)
		})
	})

	Convey("Given a fit without intercept", t, func() {
		x := [][]float64{{1}, {2}, {3}}
		y := []float64{2, 4, 6}

		m, err := regression.NewOLS(regression.WithIntercept(false)).Fit(context.Background(), x, y)

		Convey("Then the intercept is zero", func() {
			So(err, ShouldBeNil)
			So(m.Intercept, ShouldEqual, 0)
			So(m.Coefficients[0], ShouldAlmostEqual, 2, tol)
		})
	})

	Convey("Given every column constant", t, func() {
		x := [][]float64{{20, 20}, {20, 20}, {20, 20}}
		y := []float64{1, 2, 6}

		m, err := regression.NewOLS(regression.WithNormalize(true)).Fit(context.Background(), x, y)

		Convey("Then the model predicts the mean", func() {
			So(err, ShouldBeNil)
			So(m.Intercept, ShouldAlmostEqual, 3, tol)
			So(m.Coefficients, ShouldResemble, []float64{0, 0})
		})
	})

	Convey("Given bad input", t, func() {
		ols := regression.NewOLS()
		ctx := context.Background()

		Convey("When there are no samples", func() {
			_, err := ols.Fit(ctx, nil, nil)
			So(errors.Is(err, regression.ErrNoSamples), ShouldBeTrue)
		})

		Convey("When rows and targets differ in length", func() {
			_, err := ols.Fit(ctx, [][]float64{{1}}, []float64{1, 2})
			So(errors.Is(err, regression.ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("When rows are ragged", func() {
			_, err := ols.Fit(ctx, [][]float64{{1, 2}, {3}}, []float64{1, 2})
			So(errors.Is(err, regression.ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := ols.Fit(cctx, [][]float64{{1}, {2}}, []float64{1, 2})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestModel_Predict(t *testing.T) {
	Convey("Given a model with two coefficients", t, func() {
		m := &regression.Model{Intercept: 1, Coefficients: []float64{2, 3}}

		Convey("Then predictions are intercept plus the dot product", func() {
			p, err := m.Predict([][]float64{{1, 1}, {0, 2}})
			So(err, ShouldBeNil)
			So(p, ShouldResemble, []float64{6, 7})
		})

		Convey("Then a short row is rejected", func() {
			_, err := m.Predict([][]float64{{1}})
			So(errors.Is(err, regression.ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}

func TestRSquared(t *testing.T) {
	Convey("Given predictions equal to the mean", t, func() {
		y := []float64{1, 2, 3}
		So(math.Abs(regression.RSquared(y, []float64{2, 2, 2})), ShouldBeLessThan, tol)
	})
}
