package model

import "fmt"

// Position is a hockey position group.
type Position string

// Position groups, in feature-vector order.
const (
	Center  Position = "C"
	Wing    Position = "W"
	Defense Position = "D"
	Goalie  Position = "G"
)

// Positions lists every position group in feature-vector order.
var Positions = []Position{Center, Wing, Defense, Goalie}

// ParsePosition maps a dump "pos" value onto a Position.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case Center, Wing, Defense, Goalie:
		return p, nil
	default:
		return "", fmt.Errorf("unknown position %q", s)
	}
}

func (p Position) String() string { return string(p) }
