package parametric

import "fmt"

// DegenerateTailThreshold is the tail probability below which the fitted model is said
// to put no mass beyond the bound.
const DegenerateTailThreshold = 1e-15

// Fallback is the value substituted when the fitted tail is degenerate.
type Fallback int

const (
	FallbackBound Fallback = iota
	FallbackHalfBound
)

func (f Fallback) String() string {
	switch f {
	case FallbackBound:
		return "bound"
	case FallbackHalfBound:
		return "half-bound"
	}
	return fmt.Sprintf("Fallback(%d)", int(f))
}

func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "bound":
		return FallbackBound, nil
	case "half-bound", "half":
		return FallbackHalfBound, nil
	}
	return FallbackBound, fmt.Errorf("unknown fallback %q", s)
}

func (f Fallback) apply(bound float64) float64 {
	switch f {
	case FallbackHalfBound:
		return bound / 2
	}
	return bound
}

// Policy picks the fallback per tail. The default keeps the historical asymmetry:
// a right bound falls back to itself, a left bound to half of itself.
type Policy struct {
	Left  Fallback
	Right Fallback
}

func DefaultPolicy() Policy {
	return Policy{
		Left:  FallbackHalfBound,
		Right: FallbackBound,
	}
}
