package kselect

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// SilhouetteScore computes the mean silhouette coefficient over all samples.
//
// For each sample, a is the mean distance to the other members of its own
// cluster and b is the mean distance to the members of the nearest other
// cluster; the sample's silhouette is (b-a)/max(a,b). Samples in singleton
// clusters score 0. The result is in [-1, 1]; higher means better-separated
// clusters.
//
// Requires at least 2 samples and at least 2 distinct clusters in labels.
func SilhouetteScore(data [][]float64, labels []int, metric DistanceMetric) (float64, error) {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	n := len(data)
	if len(labels) != n {
		return 0, fmt.Errorf("kselect: labels length %d does not match sample count %d", len(labels), n)
	}
	if n < 2 {
		return 0, fmt.Errorf("kselect: silhouette requires at least 2 samples, got %d", n)
	}

	// Group sample indices by cluster.
	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	if len(members) < 2 {
		return 0, fmt.Errorf("kselect: silhouette requires at least 2 distinct clusters, got %d", len(members))
	}

	scores := make([]float64, n)
	for i := range data {
		own := labels[i]
		if len(members[own]) == 1 {
			continue
		}

		a := meanDistance(data, i, members[own], metric)

		b := -1.0
		for cluster, idxs := range members {
			if cluster == own {
				continue
			}
			if d := meanDistance(data, i, idxs, metric); b < 0 || d < b {
				b = d
			}
		}

		switch {
		case a < b:
			scores[i] = (b - a) / b
		case a > b:
			scores[i] = (b - a) / a
		}
	}

	return stat.Mean(scores, nil), nil
}

// meanDistance returns the mean distance from data[i] to the points at idxs,
// excluding i itself.
func meanDistance(data [][]float64, i int, idxs []int, metric DistanceMetric) float64 {
	var sum float64
	count := 0
	for _, j := range idxs {
		if j == i {
			continue
		}
		sum += metric.Distance(data[i], data[j])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
