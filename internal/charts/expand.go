// Package charts turns dashboard data into SVG charts: the repayment gauge,
// the density comparisons of the population statistics and the income
// histogram of the reference table.
package charts

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/risk-dashboard/internal/model"
)

// ExpandBuckets rebuilds an approximate sample list from a bucket mapping by
// repeating each numeric key count times. The result is sorted. It is a lossy
// reconstruction meant only for plotting.
func ExpandBuckets(buckets model.BucketMap) ([]float64, error) {
	points, err := weightedPoints(buckets)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range points {
		total += p.weight
	}

	out := make([]float64, 0, total)
	for _, p := range points {
		for range p.weight {
			out = append(out, p.value)
		}
	}
	return out, nil
}

type weightedPoint struct {
	value  float64
	weight int
}

// weightedPoints parses the bucket keys and drops empty buckets, sorted by
// value. Keys that denote the same number are merged.
func weightedPoints(buckets model.BucketMap) ([]weightedPoint, error) {
	merged := make(map[float64]int, len(buckets))
	for key, count := range buckets {
		if count < 0 {
			return nil, eris.Errorf("charts: bucket %q has negative count %d", key, count)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, eris.Errorf("charts: bucket key %q is not a number", key)
		}
		if count > 0 {
			merged[v] += count
		}
	}

	points := make([]weightedPoint, 0, len(merged))
	for v, w := range merged {
		points = append(points, weightedPoint{value: v, weight: w})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].value < points[j].value })
	return points, nil
}
