package dump

import "errors"

// Sentinel kinds for dump errors.
var (
	ErrNoFiles = errors.New("no dump files found")
	ErrDecode  = errors.New("decode dump")
)
