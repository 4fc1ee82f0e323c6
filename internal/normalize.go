package internal

import (
	"math"

	"github.com/golang/geo/r2"
)

// Normalize maps value from the [srcMin, srcMax] space onto [0, targetMax]. A
// zero-width source space has no scale, so every value is placed at the
// midpoint of the target space.
func Normalize(srcMin float64, srcMax float64, value float64, targetMax float64) float64 {
	srcLen := srcMax - srcMin
	if srcLen == 0 {
		return targetMax / 2
	}
	scaleFactor := srcLen / targetMax
	return (value - srcMin) / scaleFactor
}

// Bounds returns the bounding box of every sample in the dataset. The box is
// seeded at the origin, so it always contains (0, 0).
func Bounds(ds Dataset) r2.Rect {
	bounds := r2.RectFromPoints(r2.Point{})
	for _, samples := range ds {
		for _, s := range samples {
			bounds = bounds.AddPoint(r2.Point{X: s.X, Y: s.Y})
		}
	}
	return bounds
}

// NormalizePositions rescales every sample of the dataset into [0, targetMax].
// Both axes share one square source box (the bounding box extended along its
// shorter side) so the play space keeps its aspect ratio: the dominant axis
// spans the full [0, targetMax] range, the other axis proportionally less.
func NormalizePositions(targetMax float64, ds Dataset) Dataset {
	bounds := Bounds(ds)
	lo := bounds.Lo()
	size := bounds.Size()
	side := math.Max(size.X, size.Y)

	res := make(Dataset, len(ds))
	for name, samples := range ds {
		normalized := make([]Sample, len(samples))
		for idx, s := range samples {
			normalized[idx] = Sample{
				Player: s.Player,
				X:      Normalize(lo.X, lo.X+side, s.X, targetMax),
				Y:      Normalize(lo.Y, lo.Y+side, s.Y, targetMax),
				Tick:   s.Tick,
			}
		}
		res[name] = normalized
	}
	return res
}
