package features

import "github.com/okian/teamovr/pkg/logger"

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithDefaultOvr sets the rating used for slots without a qualifying player.
func WithDefaultOvr(ovr float64) Option {
	return func(e *Extractor) {
		e.defaultOvr = ovr
	}
}

// WithStatsTidsFilter skips players whose statsTids does not list the team.
// Players without statsTids are always scanned.
func WithStatsTidsFilter(enabled bool) Option {
	return func(e *Extractor) {
		e.statsTidsFilter = enabled
	}
}

// WithRequireGamesPlayed makes stat lines with gp == 0 not count as an appearance.
func WithRequireGamesPlayed(enabled bool) Option {
	return func(e *Extractor) {
		e.requireGamesPlayed = enabled
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(l logger.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}
