package config

import (
	"fmt"
	"os"

	"github.com/uyouii/ndimpute/common"
	"github.com/uyouii/ndimpute/impute"
	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/parametric"
	"github.com/uyouii/ndimpute/substitution"
	"github.com/uyouii/ndimpute/turnbull"
	"gopkg.in/yaml.v3"
)

// Config is the file form of impute.Options, enum values are written as their names.
type Config struct {
	Method           string `yaml:"method"`
	Censoring        string `yaml:"censoring"`
	Dist             string `yaml:"dist"`
	PlottingPosition string `yaml:"plotting_position"`

	Turnbull     turnbull.Options   `yaml:"turnbull"`
	Substitution SubstitutionConfig `yaml:"substitution"`
	Fallback     FallbackConfig     `yaml:"fallback"`
}

type SubstitutionConfig struct {
	Left            string  `yaml:"left"`
	Right           string  `yaml:"right"`
	LeftMultiplier  float64 `yaml:"left_multiplier"`
	RightMultiplier float64 `yaml:"right_multiplier"`
}

type FallbackConfig struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

func Default() *Config {
	return &Config{
		Method:           model.ROS.String(),
		Censoring:        model.LeftCensoring.String(),
		Dist:             model.Lognormal.String(),
		PlottingPosition: model.KaplanMeier.String(),
		Turnbull:         turnbull.DefaultOptions(),
		Substitution: SubstitutionConfig{
			Left:  model.Half.String(),
			Right: model.Value.String(),
		},
		Fallback: FallbackConfig{
			Left:  parametric.FallbackHalfBound.String(),
			Right: parametric.FallbackBound.String(),
		},
	}
}

// Load reads and validates a YAML file, fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse rejects a document with an unknown enum name.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.ToOptions(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToOptions resolves every name in the config, the first unknown one is reported.
func (c *Config) ToOptions() (impute.Options, error) {
	opts := impute.DefaultOptions()
	var err error

	if opts.Method, err = model.ParseMethod(c.Method); err != nil {
		return opts, unknown("method", err)
	}
	if opts.Censoring, err = model.ParseCensoringType(c.Censoring); err != nil {
		return opts, unknown("censoring", err)
	}
	if opts.ROS.Dist, err = model.ParseDistribution(c.Dist); err != nil {
		return opts, unknown("dist", err)
	}
	if opts.ROS.PlottingPosition, err = model.ParsePlottingPosition(c.PlottingPosition); err != nil {
		return opts, unknown("plotting_position", err)
	}

	opts.Turnbull = c.Turnbull

	if opts.LeftRule, err = rule(c.Substitution.Left, c.Substitution.LeftMultiplier, substitution.DefaultLeftRule()); err != nil {
		return opts, unknown("substitution.left", err)
	}
	if opts.RightRule, err = rule(c.Substitution.Right, c.Substitution.RightMultiplier, substitution.DefaultRightRule()); err != nil {
		return opts, unknown("substitution.right", err)
	}

	if opts.Fallback.Left, err = fallback(c.Fallback.Left, opts.Fallback.Left); err != nil {
		return opts, unknown("fallback.left", err)
	}
	if opts.Fallback.Right, err = fallback(c.Fallback.Right, opts.Fallback.Right); err != nil {
		return opts, unknown("fallback.right", err)
	}
	return opts, nil
}

func rule(name string, multiplier float64, def substitution.Rule) (substitution.Rule, error) {
	if name == "" {
		return def, nil
	}
	strategy, err := model.ParseStrategy(name)
	if err != nil {
		return def, err
	}
	return substitution.Rule{Strategy: strategy, Multiplier: multiplier}, nil
}

func fallback(name string, def parametric.Fallback) (parametric.Fallback, error) {
	if name == "" {
		return def, nil
	}
	return parametric.ParseFallback(name)
}

func unknown(field string, err error) error {
	return common.NewValidationError("config", common.ErrorUnknownOption, "%s: %v", field, err)
}
