package features

import "errors"

// Sentinel kinds for extraction errors. ErrMissingRating and
// ErrUnknownPosition mean the dump is inconsistent and the run must stop.
var (
	ErrMissingRating    = errors.New("no ratings found for season")
	ErrUnknownPosition  = errors.New("unknown position")
	ErrPredictionLength = errors.New("prediction count does not match row count")
)
