package sim

import (
	"log/slog"

	"github.com/pthm-cable/slime/telemetry"
)

// flushTelemetry closes the stats window when it is due and fans the result
// out to the callback, the log and the CSV output.
func (s *Simulation) flushTelemetry(convergence float32) {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	s.fitnessBuf = s.fitnessBuf[:0]
	query := s.agentFilter.Query()
	for query.Next() {
		_, _, vit := query.Get()
		s.fitnessBuf = append(s.fitnessBuf, float64(vit.Fitness))
	}

	pop := telemetry.Population{
		Agents:      s.agentCount,
		FoodSources: len(s.foods),
		MoldSources: len(s.molds),
		FoodReached: s.FoodReached(),
		Convergence: float64(convergence),
	}
	trail := telemetry.SampleTrail(s.field.Trail,
		float32(s.cfg.Telemetry.OccupiedThreshold),
		float32(s.cfg.Telemetry.VeinThreshold),
	)

	stats := s.collector.Flush(s.tick, pop, s.fitnessBuf, trail)

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}
	if s.logStats {
		stats.LogStats()
	}

	if err := s.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.outputManager.WritePerf(s.perfCollector.Stats(), s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, b := range s.bookmarks.Check(stats) {
		if s.logStats {
			b.LogBookmark()
		}
		if err := s.outputManager.WriteBookmark(b); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// FoodReached counts the food sources the mold has reached.
func (s *Simulation) FoodReached() int {
	var n int
	for _, fd := range s.foods {
		if fd.Reached(s.field) {
			n++
		}
	}
	return n
}

// VeinReport measures how well the current trail connects molds to food.
func (s *Simulation) VeinReport() telemetry.VeinReport {
	return telemetry.VeinContrast(s.field, s.molds, s.foods, s.cfg.Telemetry.VeinThreshold)
}
