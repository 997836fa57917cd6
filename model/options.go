package model

import "fmt"

// Distribution is the family assumed by the regression engines.
type Distribution int

const (
	Lognormal Distribution = iota
	Normal
)

func (d Distribution) String() string {
	switch d {
	case Lognormal:
		return "lognormal"
	case Normal:
		return "normal"
	}
	return fmt.Sprintf("Distribution(%d)", int(d))
}

func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "lognormal", "":
		return Lognormal, nil
	case "normal":
		return Normal, nil
	}
	return Lognormal, fmt.Errorf("unknown distribution %q", s)
}

// PlottingPosition selects how ROS assigns probabilities to ranks.
type PlottingPosition int

const (
	KaplanMeier PlottingPosition = iota
	SimpleRank
)

func (p PlottingPosition) String() string {
	switch p {
	case KaplanMeier:
		return "kaplan-meier"
	case SimpleRank:
		return "simple"
	}
	return fmt.Sprintf("PlottingPosition(%d)", int(p))
}

func ParsePlottingPosition(s string) (PlottingPosition, error) {
	switch s {
	case "kaplan-meier", "km", "":
		return KaplanMeier, nil
	case "simple":
		return SimpleRank, nil
	}
	return KaplanMeier, fmt.Errorf("unknown plotting position %q", s)
}

type Method int

const (
	ROS Method = iota
	Parametric
	Substitution
)

func (m Method) String() string {
	switch m {
	case ROS:
		return "ros"
	case Parametric:
		return "parametric"
	case Substitution:
		return "substitution"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case "ros", "":
		return ROS, nil
	case "parametric":
		return Parametric, nil
	case "substitution":
		return Substitution, nil
	}
	return ROS, fmt.Errorf("unknown method %q", s)
}

type CensoringType int

const (
	LeftCensoring CensoringType = iota
	RightCensoring
	MixedCensoring
	IntervalCensoring
)

func (c CensoringType) String() string {
	switch c {
	case LeftCensoring:
		return "left"
	case RightCensoring:
		return "right"
	case MixedCensoring:
		return "mixed"
	case IntervalCensoring:
		return "interval"
	}
	return fmt.Sprintf("CensoringType(%d)", int(c))
}

func ParseCensoringType(s string) (CensoringType, error) {
	switch s {
	case "left", "":
		return LeftCensoring, nil
	case "right":
		return RightCensoring, nil
	case "mixed":
		return MixedCensoring, nil
	case "interval":
		return IntervalCensoring, nil
	}
	return LeftCensoring, fmt.Errorf("unknown censoring type %q", s)
}

// Strategy is a naive substitution rule.
type Strategy int

const (
	Half Strategy = iota
	Zero
	Value
	Multiple
)

func (s Strategy) String() string {
	switch s {
	case Half:
		return "half"
	case Zero:
		return "zero"
	case Value:
		return "value"
	case Multiple:
		return "multiple"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "half":
		return Half, nil
	case "zero":
		return Zero, nil
	case "value", "lod", "c":
		return Value, nil
	case "multiple":
		return Multiple, nil
	}
	return Half, fmt.Errorf("unknown substitution strategy %q", s)
}
