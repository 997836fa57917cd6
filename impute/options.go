package impute

import (
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/parametric"
	"github.com/uyouii/ndimpute/ros"
	"github.com/uyouii/ndimpute/substitution"
	"github.com/uyouii/ndimpute/turnbull"
)

type Options struct {
	Method    model.Method
	Censoring model.CensoringType

	ROS      ros.Options
	Turnbull turnbull.Options
	Fallback parametric.Policy

	LeftRule  substitution.Rule
	RightRule substitution.Rule
}

func DefaultOptions() Options {
	return Options{
		Method:    model.ROS,
		Censoring: model.LeftCensoring,
		ROS:       ros.DefaultOptions(),
		Turnbull:  turnbull.DefaultOptions(),
		Fallback:  parametric.DefaultPolicy(),
		LeftRule:  substitution.DefaultLeftRule(),
		RightRule: substitution.DefaultRightRule(),
	}
}

// Request carries the data of one call. Values and Status are used for left, right and
// mixed censoring, Bounds for interval censoring.
type Request struct {
	Values []float64
	Status []model.Status
	Bounds []model.Bounds

	Options Options
}
