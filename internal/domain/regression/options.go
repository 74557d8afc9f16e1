package regression

// Option applies a configuration option to OLS.
type Option func(*OLS)

// WithIntercept controls whether an intercept term is fitted. Default true.
func WithIntercept(enabled bool) Option {
	return func(o *OLS) {
		o.fitIntercept = enabled
	}
}

// WithNormalize scales each centred feature column to unit L2 norm before
// solving. Coefficients are reported on the original scale, so predictions
// do not change; only the conditioning of the solve does.
func WithNormalize(enabled bool) Option {
	return func(o *OLS) {
		o.normalize = enabled
	}
}

// WithRcond sets the relative singular value cutoff used to pick the rank.
// Non-positive values keep the default of eps·max(rows, cols).
func WithRcond(rcond float64) Option {
	return func(o *OLS) {
		if rcond > 0 {
			o.rcond = rcond
		}
	}
}
