package kselect

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Fitter fits a partitional clustering model for a fixed cluster count.
// Implementations must validate that k is compatible with the data and must
// be safe for concurrent use: Select may fit several candidates at once.
type Fitter interface {
	// FitPredict fits a model with k clusters on data, seeding any stochastic
	// initialization from seed, and returns the model together with the
	// per-point cluster assignments in [0, k).
	FitPredict(data [][]float64, k int, seed int64) (Model, []int, error)
}

// Model is a fitted clustering model.
type Model interface {
	// Predict assigns each point to its nearest cluster.
	Predict(data [][]float64) ([]int, error)

	// NumClusters returns the cluster count the model was fitted with.
	NumClusters() int
}

// KMeans is the default fitting primitive: Lloyd's algorithm with k-means++
// initialization. The zero value is ready to use.
type KMeans struct {
	// MaxIter caps the number of Lloyd iterations. Default: 300.
	MaxIter int

	// Tolerance stops iteration once the largest centroid movement falls
	// below it. Default: 1e-4.
	Tolerance float64

	// Metric measures point-to-centroid distances. Default: EuclideanMetric.
	Metric DistanceMetric
}

// KMeansModel is a fitted k-means model.
type KMeansModel struct {
	// Centroids holds one cluster center per row.
	Centroids [][]float64

	// Inertia is the sum of squared distances from each point to its
	// assigned centroid.
	Inertia float64

	// Iterations is the number of Lloyd iterations performed.
	Iterations int

	// Converged reports whether iteration stopped before MaxIter.
	Converged bool

	metric DistanceMetric
}

// NumClusters returns the number of centroids.
func (m *KMeansModel) NumClusters() int { return len(m.Centroids) }

// Predict assigns each point to the nearest centroid.
func (m *KMeansModel) Predict(data [][]float64) ([]int, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("kselect: cannot predict on empty data")
	}
	dims := len(m.Centroids[0])
	assignments := make([]int, len(data))
	for i, p := range data {
		if len(p) != dims {
			return nil, fmt.Errorf("kselect: point %d has %d features, model expects %d", i, len(p), dims)
		}
		assignments[i] = nearestCentroid(p, m.Centroids, m.metric)
	}
	return assignments, nil
}

// FitPredict runs seeded k-means++ initialization followed by Lloyd's
// iterations and returns the fitted model with the final assignments.
func (km KMeans) FitPredict(data [][]float64, k int, seed int64) (Model, []int, error) {
	maxIter := km.MaxIter
	if maxIter == 0 {
		maxIter = 300
	}
	tol := km.Tolerance
	if tol == 0 {
		tol = 1e-4
	}
	metric := km.Metric
	if metric == nil {
		metric = EuclideanMetric{}
	}

	n := len(data)
	if n == 0 {
		return nil, nil, fmt.Errorf("kselect: cannot fit on empty data")
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("kselect: cluster count must be >= 1, got %d", k)
	}
	if k > n {
		return nil, nil, fmt.Errorf("kselect: cluster count %d exceeds sample count %d", k, n)
	}
	dims := len(data[0])
	for i, p := range data {
		if len(p) != dims {
			return nil, nil, fmt.Errorf("kselect: point %d has %d features, point 0 has %d", i, len(p), dims)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := initCentroids(data, k, rng, metric)
	assignments := make([]int, n)

	iterations := 0
	converged := false
	for it := 0; it < maxIter; it++ {
		iterations = it + 1

		changed := false
		for i, p := range data {
			best := nearestCentroid(p, centroids, metric)
			if assignments[i] != best {
				changed = true
				assignments[i] = best
			}
		}

		repairEmptyClusters(data, centroids, assignments, metric)

		// Update step: each centroid moves to the mean of its points.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range data {
			floats.Add(sums[assignments[i]], p)
			counts[assignments[i]]++
		}
		var shift float64
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			if d := metric.Distance(centroids[c], sums[c]); d > shift {
				shift = d
			}
			centroids[c] = sums[c]
		}

		if !changed || shift < tol {
			converged = true
			break
		}
	}

	var inertia float64
	for i, p := range data {
		inertia += EuclideanMetric{}.ReducedDistance(centroids[assignments[i]], p)
	}

	model := &KMeansModel{
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
		Converged:  converged,
		metric:     metric,
	}
	return model, assignments, nil
}

// nearestCentroid returns the index of the centroid closest to p.
func nearestCentroid(p []float64, centroids [][]float64, metric DistanceMetric) int {
	best := 0
	bestDist := metric.ReducedDistance(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := metric.ReducedDistance(p, centroids[c]); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// initCentroids picks k starting centers with k-means++: the first uniformly
// at random, each subsequent one with probability proportional to its squared
// distance from the nearest already-chosen center.
func initCentroids(data [][]float64, k int, rng *rand.Rand, metric DistanceMetric) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)

	first := append([]float64(nil), data[rng.Intn(n)]...)
	centroids = append(centroids, first)

	distSq := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, p := range data {
			nearest := metric.ReducedDistance(p, centroids[0])
			for _, c := range centroids[1:] {
				if d := metric.ReducedDistance(p, c); d < nearest {
					nearest = d
				}
			}
			distSq[i] = nearest
			total += nearest
		}

		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, d := range distSq {
				cum += d
				if cum >= target {
					idx = i
					break
				}
			}
		} else {
			// All remaining points coincide with a chosen center.
			idx = rng.Intn(n)
		}
		centroids = append(centroids, append([]float64(nil), data[idx]...))
	}
	return centroids
}

// repairEmptyClusters relocates the centroid of any empty cluster to the
// point farthest from its assigned centroid, so every fitted model has k
// non-empty clusters.
func repairEmptyClusters(data [][]float64, centroids [][]float64, assignments []int, metric DistanceMetric) {
	counts := make([]int, len(centroids))
	for _, a := range assignments {
		counts[a]++
	}
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		farthest, farthestDist := -1, -1.0
		for i, p := range data {
			if counts[assignments[i]] <= 1 {
				continue
			}
			if d := metric.ReducedDistance(p, centroids[assignments[i]]); d > farthestDist {
				farthestDist = d
				farthest = i
			}
		}
		if farthest < 0 {
			continue
		}
		counts[assignments[farthest]]--
		assignments[farthest] = c
		counts[c] = 1
		centroids[c] = append([]float64(nil), data[farthest]...)
	}
}
