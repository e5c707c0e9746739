package charts

import (
	"math"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// DefaultKDEPoints is the number of grid points of a density curve.
const DefaultKDEPoints = 500

// Curve is a sampled density curve.
type Curve struct {
	X []float64
	Y []float64
}

// Empty reports whether the curve has no points.
func (c Curve) Empty() bool { return len(c.X) == 0 }

// MaxY returns the largest density value.
func (c Curve) MaxY() float64 {
	m := 0.0
	for _, y := range c.Y {
		m = max(m, y)
	}
	return m
}

// KDE estimates a Gaussian kernel density for samples with Scott's rule
// bandwidth, evaluated at points evenly spaced values from min(samples) to
// max(samples). No samples yields an empty curve.
func KDE(samples []float64, points int) Curve {
	counts := make(map[float64]int, len(samples))
	for _, s := range samples {
		counts[s]++
	}
	wp := make([]weightedPoint, 0, len(counts))
	for v, w := range counts {
		wp = append(wp, weightedPoint{value: v, weight: w})
	}
	return kdeWeighted(wp, points)
}

// BucketKDE is KDE over the expansion of buckets, computed without
// materializing the expanded sample list.
func BucketKDE(buckets model.BucketMap, points int) (Curve, error) {
	wp, err := weightedPoints(buckets)
	if err != nil {
		return Curve{}, err
	}
	return kdeWeighted(wp, points), nil
}

func kdeWeighted(wp []weightedPoint, points int) Curve {
	if points < 2 {
		points = DefaultKDEPoints
	}

	n := 0
	sum := 0.0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range wp {
		n += p.weight
		sum += p.value * float64(p.weight)
		lo = min(lo, p.value)
		hi = max(hi, p.value)
	}
	if n == 0 {
		return Curve{}
	}

	mean := sum / float64(n)
	bw := 0.0
	if n > 1 {
		ss := 0.0
		for _, p := range wp {
			d := p.value - mean
			ss += d * d * float64(p.weight)
		}
		std := math.Sqrt(ss / float64(n-1))
		bw = std * math.Pow(float64(n), -0.2)
	}
	if bw == 0 {
		// Degenerate sample: a single distinct value.
		bw = math.Max(math.Abs(mean)*0.1, 1)
		lo, hi = mean-3*bw, mean+3*bw
	}

	step := (hi - lo) / float64(points-1)
	norm := 1 / (float64(n) * bw * math.Sqrt(2*math.Pi))

	c := Curve{X: make([]float64, points), Y: make([]float64, points)}
	for i := range points {
		x := lo + float64(i)*step
		d := 0.0
		for _, p := range wp {
			z := (x - p.value) / bw
			d += float64(p.weight) * math.Exp(-0.5*z*z)
		}
		c.X[i] = x
		c.Y[i] = d * norm
	}
	return c
}
