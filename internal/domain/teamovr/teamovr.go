// Package teamovr condenses a roster feature vector into position-group
// averages and converts them into the game's 0-100 team rating.
package teamovr

import (
	"math"

	"github.com/okian/teamovr/internal/domain/features"
	"github.com/okian/teamovr/internal/domain/model"
)

// Aggregate is the weighted average rating of each position group.
type Aggregate struct {
	C, W, D, G float64
}

// AggregateColumns names the aggregate features in Slice order.
var AggregateColumns = []string{"C", "W", "D", "G"}

// Slice returns the aggregate as C, W, D, G.
func (a Aggregate) Slice() []float64 {
	return []float64{a.C, a.W, a.D, a.G}
}

// Aggregated averages the dressed lineup: three full-time centres and a
// fourth at half weight, six wingers and two more at half weight, six
// defensemen, and the starting goalie.
func Aggregated(v features.Vector) Aggregate {
	c := v.Group(model.Center)
	w := v.Group(model.Wing)
	d := v.Group(model.Defense)
	g := v.Group(model.Goalie)

	return Aggregate{
		C: (c[0] + c[1] + c[2] + 0.5*c[3]) / 3.5,
		W: (w[0] + w[1] + w[2] + w[3] + w[4] + w[5] + 0.5*w[6] + 0.5*w[7]) / 7,
		D: (d[0] + d[1] + d[2] + d[3] + d[4] + d[5]) / 6,
		G: g[0],
	}
}

// AggregateRows maps every feature vector of t onto its aggregate slice.
func AggregateRows(t *features.Table) [][]float64 {
	rows := t.Rows()
	x := make([][]float64, len(rows))
	for i := range rows {
		x[i] = Aggregated(rows[i].Features).Slice()
	}
	return x
}

// Weights maps aggregates onto a predicted goal margin per game.
type Weights struct {
	Intercept  float64
	C, W, D, G float64
}

// DefaultWeights are the coefficients the game ships with.
var DefaultWeights = Weights{
	Intercept: -6.786793385826883,
	C:         0.033908896,
	W:         0.032181329,
	D:         0.032837313,
	G:         0.022552802,
}

// WeightsFrom builds Weights from a fitted intercept and C, W, D, G coefficients.
func WeightsFrom(intercept float64, coef []float64) Weights {
	w := Weights{Intercept: intercept}
	if len(coef) == len(AggregateColumns) {
		w.C, w.W, w.D, w.G = coef[0], coef[1], coef[2], coef[3]
	}
	return w
}

// MOV is the predicted margin of victory.
func (w Weights) MOV(a Aggregate) float64 {
	return w.Intercept + w.C*a.C + w.W*a.W + w.D*a.D + w.G*a.G
}

// movSpan is the MOV range mapped onto 0-100: -0.9 maps to 0 and +0.9 to 100.
const movSpan = 1.8

// Ovr translates the predicted MOV to a team rating, never below 0.
func (w Weights) Ovr(v features.Vector) int {
	raw := w.MOV(Aggregated(v))*100/movSpan + 50
	return int(math.Max(0, math.Round(raw)))
}
