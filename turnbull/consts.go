package turnbull

const (
	DefaultTolerance = 1e-5
	DefaultMaxIter   = 1000

	// denominator used for an observation that no interval can explain
	zeroRowEpsilon = 1e-100
)

type Options struct {
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	MaxIter   int     `json:"max_iter" yaml:"max_iter"`
}

func DefaultOptions() Options {
	return Options{
		Tolerance: DefaultTolerance,
		MaxIter:   DefaultMaxIter,
	}
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}
