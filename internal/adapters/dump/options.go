package dump

import "github.com/okian/teamovr/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDir sets the directory searched for dumps.
func WithDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.dir = dir
		}
	}
}

// WithPattern sets the glob matched against file names.
func WithPattern(pattern string) Option {
	return func(l *Loader) {
		if pattern != "" {
			l.pattern = pattern
		}
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithWorkers bounds how many files are decoded at once. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}
