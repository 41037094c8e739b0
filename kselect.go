package kselect

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ErrInvalidConfig reports a configuration or precondition violation: a
// MaxClusters below 2, a MaxClusters above the sample count, or labels that
// do not align with the data. Test with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidityFunc scores a clustering from the data and assignments alone.
// Higher means better-separated clusters.
type ValidityFunc func(data [][]float64, labels []int, metric DistanceMetric) (float64, error)

// AgreementFunc scores predicted assignments against ground-truth labels.
// Higher means closer agreement; the score must be tolerant of label
// permutation.
type AgreementFunc func(truth, pred []int) (float64, error)

// Config controls the cluster-count sweep.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// MaxClusters is the inclusive upper bound of the candidate sweep, which
	// always starts at 2. Must be >= 2 and must not exceed the number of
	// samples passed to Select. Default: 2.
	MaxClusters int

	// RandomSeed seeds the fitting primitive. The same seed is passed to
	// every candidate fit, so a fixed seed makes the whole sweep
	// deterministic. 0 means derive a seed from the clock once per Select
	// call. Default: 0.
	RandomSeed int64

	// Workers controls the number of goroutines evaluating candidates.
	// Candidate evaluations are independent, and the parallel sweep produces
	// output identical to the sequential one. 0 means use runtime.NumCPU().
	// Default: 0 (auto).
	Workers int

	// Fitter is the partitional-clustering primitive fitted once per
	// candidate count. Default: KMeans with its own defaults.
	Fitter Fitter

	// Metric is the distance function used by the default fitter and the
	// validity score. Default: EuclideanMetric.
	Metric DistanceMetric

	// Validity computes the internal validity score for each candidate.
	// Default: SilhouetteScore.
	Validity ValidityFunc

	// Agreement computes the external agreement score for each candidate
	// when labels are supplied to Select. Default: AdjustedRandIndex.
	Agreement AgreementFunc
}

// Result is the output of a completed sweep. It is a value: Select never
// retains or mutates it after returning.
type Result struct {
	// NumClusters is the selected cluster count, in [2, MaxClusters].
	NumClusters int

	// Model is the fitted model for NumClusters.
	Model Model

	// Silhouettes holds one internal validity score per candidate count, in
	// ascending count order: Silhouettes[i] scores count i+2.
	Silhouettes []float64

	// ARIs holds one external agreement score per candidate count, aligned
	// with Silhouettes. Nil when no labels were supplied.
	ARIs []float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MaxClusters: 2,
		Metric:      EuclideanMetric{},
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Fitter == nil {
		cfg.Fitter = KMeans{Metric: cfg.Metric}
	}
	if cfg.Validity == nil {
		cfg.Validity = SilhouetteScore
	}
	if cfg.Agreement == nil {
		cfg.Agreement = AdjustedRandIndex
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.MaxClusters < 2 {
		return fmt.Errorf("kselect: %w: MaxClusters must be >= 2, got %d", ErrInvalidConfig, cfg.MaxClusters)
	}
	return nil
}

// candidate holds the sweep output for one cluster count.
type candidate struct {
	model      Model
	silhouette float64
	ari        float64
}

// Select fits one clustering model per candidate count in [2, cfg.MaxClusters],
// scores every candidate, and returns the best count and model.
//
// data holds one point per row; all rows must have the same dimensionality.
// labels, if non-nil, holds one ground-truth category per row of data. When
// labels are supplied, selection maximizes the agreement score (ARI by
// default); otherwise it maximizes the validity score (mean silhouette by
// default). Ties resolve to the lowest candidate count. Validity scores are
// computed for every candidate regardless of whether labels are present.
//
// Any error from the fitter or either scoring function aborts the sweep and
// propagates unchanged; no partial result is returned.
func Select(data [][]float64, labels []int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := len(data)
	if cfg.MaxClusters > n {
		return nil, fmt.Errorf("kselect: %w: MaxClusters must be <= the sample count, got MaxClusters=%d, samples=%d",
			ErrInvalidConfig, cfg.MaxClusters, n)
	}
	if labels != nil && len(labels) != n {
		return nil, fmt.Errorf("kselect: %w: labels length %d does not match sample count %d",
			ErrInvalidConfig, len(labels), n)
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// Candidate i evaluates cluster count i+2. Every candidate receives the
	// same seed, so the sweep is reproducible and order-independent.
	candidates := make([]candidate, cfg.MaxClusters-1)
	evaluate := func(i int) error {
		k := i + 2
		model, assignments, err := cfg.Fitter.FitPredict(data, k, seed)
		if err != nil {
			return err
		}
		sil, err := cfg.Validity(data, assignments, cfg.Metric)
		if err != nil {
			return err
		}
		c := candidate{model: model, silhouette: sil}
		if labels != nil {
			c.ari, err = cfg.Agreement(labels, assignments)
			if err != nil {
				return err
			}
		}
		candidates[i] = c
		return nil
	}

	if cfg.Workers > 1 && len(candidates) > 1 {
		if err := sweepParallel(len(candidates), cfg.Workers, evaluate); err != nil {
			return nil, err
		}
	} else {
		for i := range candidates {
			if err := evaluate(i); err != nil {
				return nil, err
			}
		}
	}

	silhouettes := make([]float64, len(candidates))
	for i, c := range candidates {
		silhouettes[i] = c.silhouette
	}

	var aris []float64
	scores := silhouettes
	if labels != nil {
		aris = make([]float64, len(candidates))
		for i, c := range candidates {
			aris[i] = c.ari
		}
		scores = aris
	}

	// First maximum wins, so ties resolve to the lowest cluster count.
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	return &Result{
		NumClusters: best + 2,
		Model:       candidates[best].model,
		Silhouettes: silhouettes,
		ARIs:        aris,
	}, nil
}
