package regression

import "errors"

// Sentinel kinds for regression errors.
var (
	ErrNoSamples         = errors.New("no samples to fit")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrFactorization     = errors.New("matrix factorization failed")
)
