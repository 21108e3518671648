package input

import (
	"fmt"
	"math"
)

// axisMax is the largest positive raw value a device axis reports.
// Raw values are scaled against this, so -32768 clamps to -1.
const axisMax = 32767

// Filter normalizes raw axis values and suppresses jitter around the stick
// centre. Each axis can carry its own dead-zone threshold; axes without one
// fall back to the default. A Filter is stateless per call and safe for
// concurrent use once constructed.
type Filter struct {
	defaultDead float64
	perAxis     map[int]float64
}

// NewFilter creates a Filter with the given default dead zone and optional
// per-axis overrides. Thresholds are fractions of full deflection and must
// be in [0,1); anything else is a configuration error.
func NewFilter(dead float64, perAxis map[int]float64) (*Filter, error) {
	if dead < 0 || dead >= 1 {
		return nil, fmt.Errorf("dead zone %v out of range [0,1)", dead)
	}
	for axis, d := range perAxis {
		if d < 0 || d >= 1 {
			return nil, fmt.Errorf("dead zone %v for axis %d out of range [0,1)", d, axis)
		}
	}
	return &Filter{defaultDead: dead, perAxis: perAxis}, nil
}

// Apply scales raw to [-1,1] and applies the axis dead zone. Values inside
// the dead zone map to 0; outside it the remaining range is rescaled so the
// output is continuous at the threshold and reaches ±1 at the raw extremes.
func (f *Filter) Apply(axis int, raw int16) float64 {
	dead := f.defaultDead
	if d, ok := f.perAxis[axis]; ok {
		dead = d
	}

	v := float64(raw) / axisMax
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}

	mag := math.Abs(v)
	if mag < dead {
		return 0
	}
	out := (mag - dead) / (1 - dead)
	if v < 0 {
		return -out
	}
	return out
}
