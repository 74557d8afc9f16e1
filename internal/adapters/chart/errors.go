package chart

import "errors"

// Sentinel kinds for plotting errors.
var (
	ErrNoPoints       = errors.New("no points to plot")
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrGridSize       = errors.New("grid size must be positive")
	ErrRender         = errors.New("render plot")
)
