package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/slime/systems"
)

// Distances that separate the off-path region from the source connections.
const (
	farFromSegment = 20
	farFromSource  = 30
)

// VeinReport compares trail along mold-to-food lines with trail far from them.
type VeinReport struct {
	LineMean     float64 // Mean trail over all segment samples
	FarMean      float64 // Mean trail over the off-path region
	LineFraction float64 // Best segment's fraction of samples above threshold
	FarFraction  float64 // Off-path fraction of cells above threshold
	Contrast     float64 // LineMean / (FarMean + 1)
	LineSamples  int
	FarSamples   int
}

// LineProfile samples the trail at unit spacing from (x0, y0) to (x1, y1),
// both ends included.
func LineProfile(f *systems.Field, x0, y0, x1, y1 float32) []float64 {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(float64(dx), float64(dy))
	n := int(math.Ceil(length))
	if n < 1 {
		return []float64{float64(f.TrailAt(x0, y0))}
	}
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		out[i] = float64(f.TrailAt(x0+dx*t, y0+dy*t))
	}
	return out
}

// FractionAbove returns the share of values strictly above threshold.
func FractionAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var n int
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

type segment struct {
	x0, y0, x1, y1 float64
}

// distSq returns the squared distance from (px, py) to the segment.
func (s segment) distSq(px, py float64) float64 {
	dx, dy := s.x1-s.x0, s.y1-s.y0
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-s.x0)*dx + (py-s.y0)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	cx, cy := s.x0+t*dx-px, s.y0+t*dy-py
	return cx*cx + cy*cy
}

// VeinContrast measures how strongly the trail has concentrated on the
// straight lines joining every mold source to every food source.
// A zero report is returned when either source list is empty.
func VeinContrast(f *systems.Field, molds []systems.MoldSource, foods []systems.FoodSource, threshold float64) VeinReport {
	var r VeinReport
	if len(molds) == 0 || len(foods) == 0 {
		return r
	}

	var segments []segment
	var line []float64
	for _, m := range molds {
		for _, fd := range foods {
			profile := LineProfile(f, m.X, m.Y, fd.X, fd.Y)
			line = append(line, profile...)
			if frac := FractionAbove(profile, threshold); frac > r.LineFraction {
				r.LineFraction = frac
			}
			segments = append(segments, segment{
				x0: float64(m.X), y0: float64(m.Y),
				x1: float64(fd.X), y1: float64(fd.Y),
			})
		}
	}
	r.LineSamples = len(line)
	r.LineMean = stat.Mean(line, nil)

	far := farRegion(f, segments, molds, foods)
	r.FarSamples = len(far)
	if len(far) > 0 {
		r.FarMean = floats.Sum(far) / float64(len(far))
		r.FarFraction = FractionAbove(far, threshold)
	}

	r.Contrast = r.LineMean / (r.FarMean + 1)
	return r
}

// farRegion collects trail values of in-plate cells well away from every
// segment and every source.
func farRegion(f *systems.Field, segments []segment, molds []systems.MoldSource, foods []systems.FoodSource) []float64 {
	w, h := f.Dims()
	segLimit := float64(farFromSegment * farFromSegment)
	srcLimit := float64(farFromSource * farFromSource)

	var out []float64
	for y := 0; y < h; y++ {
	cells:
		for x := 0; x < w; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			if !f.WithinPlate(float32(px), float32(py)) {
				continue
			}
			for _, s := range segments {
				if s.distSq(px, py) <= segLimit {
					continue cells
				}
			}
			for _, m := range molds {
				if sq(px-float64(m.X))+sq(py-float64(m.Y)) <= srcLimit {
					continue cells
				}
			}
			for _, fd := range foods {
				if sq(px-float64(fd.X))+sq(py-float64(fd.Y)) <= srcLimit {
					continue cells
				}
			}
			out = append(out, float64(f.Trail[y*w+x]))
		}
	}
	return out
}

func sq(v float64) float64 { return v * v }
