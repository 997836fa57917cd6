package ros

import "github.com/uyouii/ndimpute/model"

const (
	MinUncensoredCount = 2
)

type Options struct {
	Dist             model.Distribution
	PlottingPosition model.PlottingPosition
}

func DefaultOptions() Options {
	return Options{
		Dist:             model.Lognormal,
		PlottingPosition: model.KaplanMeier,
	}
}
