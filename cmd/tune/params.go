package main

import (
	"github.com/pthm-cable/slime/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Column name in the log
	Path string  // Config path
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of searched parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard search space. The bounds match the
// viewer sliders, plus the diffusion rate which has no slider.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "step_size", Path: "agents.step_size", Min: 0.5, Max: 10},
			{Name: "sensor_distance", Path: "sensing.distance", Min: 5, Max: 100},
			{Name: "deposit_amount", Path: "agents.deposit_amount", Min: 1, Max: 20},
			{Name: "decay_speed", Path: "trail.decay_speed", Min: 1, Max: 10},
			{Name: "food_attraction", Path: "sensing.food_attraction", Min: 0, Max: 50},
			{Name: "diffuse_rate", Path: "trail.diffuse_rate", Min: 0.1, Max: 1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Agents.StepSize = c[0]
	cfg.Sensing.Distance = c[1]
	cfg.Agents.DepositAmount = c[2]
	cfg.Trail.DecaySpeed = c[3]
	cfg.Sensing.FoodAttraction = c[4]
	cfg.Trail.DiffuseRate = c[5]
	cfg.Derived.DecayFactor = float32(1 - cfg.Trail.DecaySpeed*0.001)
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Agents.StepSize,
		cfg.Sensing.Distance,
		cfg.Agents.DepositAmount,
		cfg.Trail.DecaySpeed,
		cfg.Sensing.FoodAttraction,
		cfg.Trail.DiffuseRate,
	}
}

// EvalRecord is one row of the tuning log.
type EvalRecord struct {
	Eval           int     `csv:"eval"`
	Fitness        float64 `csv:"fitness"`
	Contrast       float64 `csv:"contrast"`
	LineFraction   float64 `csv:"line_fraction"`
	FoodReached    float64 `csv:"food_reached"`
	StepSize       float64 `csv:"step_size"`
	SensorDistance float64 `csv:"sensor_distance"`
	DepositAmount  float64 `csv:"deposit_amount"`
	DecaySpeed     float64 `csv:"decay_speed"`
	FoodAttraction float64 `csv:"food_attraction"`
	DiffuseRate    float64 `csv:"diffuse_rate"`
}

// newEvalRecord builds a log row from clamped parameter values.
func newEvalRecord(eval int, fitness float64, score Score, values []float64) EvalRecord {
	return EvalRecord{
		Eval:           eval,
		Fitness:        fitness,
		Contrast:       score.Contrast,
		LineFraction:   score.LineFraction,
		FoodReached:    score.FoodReached,
		StepSize:       values[0],
		SensorDistance: values[1],
		DepositAmount:  values[2],
		DecaySpeed:     values[3],
		FoodAttraction: values[4],
		DiffuseRate:    values[5],
	}
}
