// Package features turns league dumps into per-team-season roster feature
// vectors and goal-differential targets.
package features

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/okian/teamovr/internal/domain/model"
	"github.com/okian/teamovr/pkg/logger"
	"github.com/okian/teamovr/pkg/metrics"
)

// Skip reasons reported to metrics.
const (
	skipPlayoffs = "playoffs"
	skipNoGames  = "no_games"
)

// Source is one decoded dump and the name it was loaded from.
type Source struct {
	Name   string
	League *model.League
}

// Extractor builds feature vectors from player rating and stat histories.
type Extractor struct {
	defaultOvr         float64
	statsTidsFilter    bool
	requireGamesPlayed bool
	logger             logger.Logger
}

// NewExtractor creates an Extractor with configuration options.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		defaultOvr:      DefaultOvr,
		statsTidsFilter: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OvrsByPosition collects the overall ratings of every player who played for
// tid in season, keyed by that season's position and sorted best first.
//
// Each player's stat lines are scanned in order until one matches both season
// and tid, or one is past season. A matching player must have a rating entry
// for season; if not, ErrMissingRating is returned.
func (e *Extractor) OvrsByPosition(players []model.Player, tid, season int) (map[model.Position][]float64, error) {
	ovrs := make(map[model.Position][]float64, len(model.Positions))

	for i := range players {
		p := &players[i]
		if e.statsTidsFilter && p.StatsTids != nil && !slices.Contains(p.StatsTids, tid) {
			continue
		}

		for _, ps := range p.Stats {
			if ps.Season > season {
				break
			}
			if ps.Season != season || ps.TID != tid {
				continue
			}
			if e.requireGamesPlayed && ps.GP == 0 {
				continue
			}

			pos, ovr, err := ratingFor(p, season)
			if err != nil {
				return nil, fmt.Errorf("pid %d, tid %d: %w", p.PID, tid, err)
			}
			ovrs[pos] = append(ovrs[pos], ovr)
			break
		}
	}

	for pos := range ovrs {
		list := ovrs[pos]
		sort.SliceStable(list, func(i, j int) bool { return list[i] > list[j] })
	}

	return ovrs, nil
}

// ratingFor returns the position and overall from the first rating entry of season.
func ratingFor(p *model.Player, season int) (model.Position, float64, error) {
	for _, pr := range p.Ratings {
		if pr.Season != season {
			continue
		}
		pos, err := model.ParsePosition(pr.Pos)
		if err != nil {
			return "", 0, fmt.Errorf("%w: season %d: %w", ErrUnknownPosition, season, err)
		}
		return pos, pr.Ovr, nil
	}
	return "", 0, fmt.Errorf("%w %d", ErrMissingRating, season)
}

// Vector lays sorted ratings out in slot order, padding with the default rating.
func (e *Extractor) Vector(ovrs map[model.Position][]float64) Vector {
	var v Vector
	off := 0
	for _, g := range Groups {
		list := ovrs[g.Pos]
		for i := 0; i < g.Slots; i++ {
			if i < len(list) {
				v[off+i] = list[i]
			} else {
				v[off+i] = e.defaultOvr
			}
		}
		off += g.Slots
	}
	return v
}

// VectorFor is OvrsByPosition followed by Vector.
func (e *Extractor) VectorFor(players []model.Player, tid, season int) (Vector, error) {
	ovrs, err := e.OvrsByPosition(players, tid, season)
	if err != nil {
		return Vector{}, err
	}
	return e.Vector(ovrs), nil
}

// Extract walks sources in the given order, their teams in listed order, and
// each team's seasons in listed order, adding one row per regular-season
// team-season with games played. Any error aborts the whole extraction.
func (e *Extractor) Extract(ctx context.Context, sources []Source) (*Table, error) {
	log := e.logger
	if log == nil {
		log = logger.Named("features")
	}

	t := &Table{}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extract cancelled: %w", err)
		}
		if src.League == nil {
			continue
		}
		t.files = append(t.files, src.Name)

		before := t.Len()
		for _, team := range src.League.Teams {
			for _, ts := range team.Stats {
				switch {
				case ts.Playoffs:
					metrics.RecordTeamSeasonSkipped(skipPlayoffs)
					continue
				case ts.GP <= 0:
					metrics.RecordTeamSeasonSkipped(skipNoGames)
					continue
				}

				v, err := e.VectorFor(src.League.Players, team.TID, ts.Season)
				if err != nil {
					recordIntegrityError(err)
					return nil, fmt.Errorf("%s: season %d: %w", src.Name, ts.Season, err)
				}
				metrics.RecordPlayersScanned(len(src.League.Players))
				metrics.RecordTeamSeasonExtracted()

				t.rows = append(t.rows, Row{
					File:     src.Name,
					TID:      team.TID,
					Season:   ts.Season,
					Features: v,
					Diff:     ts.Diff(),
				})
			}
		}

		log.Debug(ctx, "extracted team-seasons",
			logger.String("file", src.Name),
			logger.Int("rows", t.Len()-before),
			logger.Int("players", len(src.League.Players)),
			logger.Int("teams", len(src.League.Teams)),
		)
	}

	return t, nil
}

func recordIntegrityError(err error) {
	switch {
	case errors.Is(err, ErrMissingRating):
		metrics.RecordIntegrityError("missing_rating")
	case errors.Is(err, ErrUnknownPosition):
		metrics.RecordIntegrityError("unknown_position")
	}
}
