// Package model contains the typed records decoded from league dumps.
//
// Field names follow the dump's JSON keys; only the keys the analysis reads are
// declared, everything else in a dump is ignored by the decoder.
package model

// League is the subset of a dump used by the analysis.
type League struct {
	Players []Player `json:"players"`
	Teams   []Team   `json:"teams"`
}

// Player is one player with per-season ratings and stat lines.
type Player struct {
	PID     int           `json:"pid"`
	Ratings []RatingEntry `json:"ratings"`
	// Stats is ordered by season ascending, as the game writes it.
	Stats []PlayerStat `json:"stats"`
	// StatsTids lists every team the player has a stat line for. Older
	// dumps omit it, in which case it is nil.
	StatsTids []int `json:"statsTids,omitempty"`
}

// RatingEntry is a player's rating for one season.
type RatingEntry struct {
	Season int     `json:"season"`
	Pos    string  `json:"pos"`
	Ovr    float64 `json:"ovr"`
}

// PlayerStat is a player's stat line for one team in one season.
type PlayerStat struct {
	Season   int  `json:"season"`
	TID      int  `json:"tid"`
	GP       int  `json:"gp"`
	Playoffs bool `json:"playoffs"`
}

// Team is one franchise with its per-season totals.
type Team struct {
	TID    int        `json:"tid"`
	Region string     `json:"region,omitempty"`
	Name   string     `json:"name,omitempty"`
	Abbrev string     `json:"abbrev,omitempty"`
	Stats  []TeamStat `json:"stats"`
}

// DisplayName returns "Region Name", falling back to the abbreviation.
func (t Team) DisplayName() string {
	switch {
	case t.Region != "" && t.Name != "":
		return t.Region + " " + t.Name
	case t.Abbrev != "":
		return t.Abbrev
	default:
		return t.Name
	}
}

// TeamStat is a team's aggregate record for one season, regular season or playoffs.
type TeamStat struct {
	Season   int     `json:"season"`
	Playoffs bool    `json:"playoffs"`
	GP       int     `json:"gp"`
	Pts      float64 `json:"pts"`
	OppPts   float64 `json:"oppPts"`
}

// Diff is the goal differential, points scored minus points allowed.
func (s TeamStat) Diff() float64 {
	return s.Pts - s.OppPts
}

// Qualifies reports whether the record belongs in the regression table:
// regular season with at least one game played.
func (s TeamStat) Qualifies() bool {
	return !s.Playoffs && s.GP > 0
}
