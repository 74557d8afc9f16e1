package features

import (
	"strconv"

	"github.com/okian/teamovr/internal/domain/model"
)

// DefaultOvr is the rating given to an empty slot.
const DefaultOvr = 20

// NumSlots is the width of a feature vector.
const NumSlots = 19

// Group is a position group and the number of ranked slots it contributes.
type Group struct {
	Pos   model.Position
	Slots int
}

// Groups is the fixed feature layout: 4 centers, 8 wingers, 6 defensemen, 1 goalie.
var Groups = []Group{
	{Pos: model.Center, Slots: 4},
	{Pos: model.Wing, Slots: 8},
	{Pos: model.Defense, Slots: 6},
	{Pos: model.Goalie, Slots: 1},
}

// Vector holds one team-season's slot ratings in Columns() order.
type Vector [NumSlots]float64

// Slice returns a copy of v as a slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, NumSlots)
	copy(out, v[:])
	return out
}

// Group returns the slots belonging to pos, best first.
func (v Vector) Group(pos model.Position) []float64 {
	off := 0
	for _, g := range Groups {
		if g.Pos == pos {
			return v[off : off+g.Slots]
		}
		off += g.Slots
	}
	return nil
}

// Columns returns the slot names: C1..C4, W1..W8, D1..D6, G.
// A group with a single slot is named by its position alone.
func Columns() []string {
	cols := make([]string, 0, NumSlots)
	for _, g := range Groups {
		if g.Slots == 1 {
			cols = append(cols, g.Pos.String())
			continue
		}
		for i := 1; i <= g.Slots; i++ {
			cols = append(cols, g.Pos.String()+strconv.Itoa(i))
		}
	}
	return cols
}
