package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	Convergence     float64 `csv:"convergence"`

	// Counts at window end
	Agents      int `csv:"agents"`
	FoodSources int `csv:"food_sources"`
	MoldSources int `csv:"mold_sources"`
	FoodReached int `csv:"food_reached"` // Food sources with trail > reach threshold at their centre

	// Trail field (sampled at window end)
	TrailMass     float64 `csv:"trail_mass"`
	TrailMean     float64 `csv:"trail_mean"`
	TrailStd      float64 `csv:"trail_std"`
	OccupiedCells int     `csv:"occupied_cells"`
	VeinCells     int     `csv:"vein_cells"`
	OccupiedP50   float64 `csv:"occupied_p50"`
	OccupiedP90   float64 `csv:"occupied_p90"`

	// Fitness distribution (sampled at window end)
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Agent-ticks during window
	Lost        int     `csv:"lost"`
	Exploring   int     `csv:"exploring"`
	Normal      int     `csv:"normal"`
	Bounces     int     `csv:"bounces"`
	Improving   int     `csv:"improving"`
	DepositMass float64 `csv:"deposit_mass"`
}

// TrailSample summarises the trail grid at one instant.
type TrailSample struct {
	Mass     float64
	Mean     float64
	Std      float64
	Occupied int
	Veins    int
	P50      float64 // Median of occupied cells
	P90      float64
}

// SampleTrail computes TrailSample over a trail grid. Cells at or above
// occupied count as occupied, cells at or above vein count as veins.
func SampleTrail(trail []float32, occupied, vein float32) TrailSample {
	if len(trail) == 0 {
		return TrailSample{}
	}

	values := make([]float64, len(trail))
	var occ []float64
	var s TrailSample
	for i, v := range trail {
		values[i] = float64(v)
		if v >= occupied {
			occ = append(occ, float64(v))
		}
		if v >= vein {
			s.Veins++
		}
	}

	s.Mass = floats.Sum(values)
	s.Mean, s.Std = stat.PopMeanStdDev(values, nil)
	s.Occupied = len(occ)

	sort.Float64s(occ)
	s.P50 = Percentile(occ, 0.50)
	s.P90 = Percentile(occ, 0.90)
	return s
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates mean and percentiles from fitness values.
func ComputeFitnessStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("convergence", s.Convergence),
		slog.Int("agents", s.Agents),
		slog.Int("food_sources", s.FoodSources),
		slog.Int("mold_sources", s.MoldSources),
		slog.Int("food_reached", s.FoodReached),
		slog.Float64("trail_mass", s.TrailMass),
		slog.Float64("trail_mean", s.TrailMean),
		slog.Float64("trail_std", s.TrailStd),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("vein_cells", s.VeinCells),
		slog.Float64("occupied_p50", s.OccupiedP50),
		slog.Float64("occupied_p90", s.OccupiedP90),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Int("lost", s.Lost),
		slog.Int("exploring", s.Exploring),
		slog.Int("normal", s.Normal),
		slog.Int("bounces", s.Bounces),
		slog.Int("improving", s.Improving),
		slog.Float64("deposit_mass", s.DepositMass),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"convergence", s.Convergence,
		"agents", s.Agents,
		"food_sources", s.FoodSources,
		"food_reached", s.FoodReached,
		"trail_mass", s.TrailMass,
		"occupied_cells", s.OccupiedCells,
		"vein_cells", s.VeinCells,
		"occupied_p90", s.OccupiedP90,
		"fitness_mean", s.FitnessMean,
		"fitness_p10", s.FitnessP10,
		"fitness_p90", s.FitnessP90,
		"lost", s.Lost,
		"exploring", s.Exploring,
		"normal", s.Normal,
		"bounces", s.Bounces,
		"improving", s.Improving,
	)
}
