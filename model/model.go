package model

import (
	"fmt"
	"math"
)

// Status is the censoring state of one observation.
// The integer values match the ternary {-1, 0, 1} encoding used for mixed censoring.
type Status int8

const (
	LeftCensored  Status = -1
	Observed      Status = 0
	RightCensored Status = 1
)

func (s Status) String() string {
	switch s {
	case LeftCensored:
		return "left"
	case Observed:
		return "observed"
	case RightCensored:
		return "right"
	}
	return fmt.Sprintf("Status(%d)", int8(s))
}

func (s Status) IsCensored() bool {
	return s != Observed
}

func (s Status) Valid() bool {
	return s == LeftCensored || s == Observed || s == RightCensored
}

// StatusFromTernary converts a {-1, 0, 1} code.
func StatusFromTernary(code int) (Status, error) {
	s := Status(code)
	if code < -1 || code > 1 {
		return Observed, fmt.Errorf("invalid censoring code %d", code)
	}
	return s, nil
}

// StatusesFromMask turns a boolean censoring indicator into statuses,
// censored entries get the given side.
func StatusesFromMask(censored []bool, side Status) []Status {
	res := make([]Status, len(censored))
	for i, c := range censored {
		if c {
			res[i] = side
		}
	}
	return res
}

// Mask returns true at every position whose status equals s.
func Mask(statuses []Status, s Status) []bool {
	res := make([]bool, len(statuses))
	for i, v := range statuses {
		res[i] = v == s
	}
	return res
}

func CountStatus(statuses []Status, s Status) int {
	cnt := 0
	for _, v := range statuses {
		if v == s {
			cnt++
		}
	}
	return cnt
}

// WeibullParams is a two-parameter Weibull model, location fixed at 0.
type WeibullParams struct {
	Shape float64 `json:"shape" yaml:"shape"`
	Scale float64 `json:"scale" yaml:"scale"`
}

func (p WeibullParams) Valid() bool {
	return p.Shape > 0 && p.Scale > 0 && !math.IsInf(p.Shape, 0) && !math.IsInf(p.Scale, 0)
}

// Mean is scale * Gamma(1 + 1/shape).
func (p WeibullParams) Mean() float64 {
	return p.Scale * math.Gamma(1+1/p.Shape)
}

// Result holds the per-observation output of an imputation, in input order.
type Result struct {
	Values   []float64 `json:"values"`
	Original []float64 `json:"original,omitempty"`
	Status   []Status  `json:"status,omitempty"`
	Imputed  []bool    `json:"imputed"`
}

func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Values)
}

func (r *Result) ImputedCount() int {
	if r == nil {
		return 0
	}
	cnt := 0
	for _, v := range r.Imputed {
		if v {
			cnt++
		}
	}
	return cnt
}

func (r *Result) DebugString() string {
	return fmt.Sprintf("valueCount: %v, imputedCount: %v", r.Len(), r.ImputedCount())
}
