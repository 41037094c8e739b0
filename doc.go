// Package kselect selects the best cluster count for partitional clustering.
//
// Given a point set, it fits one clustering model per candidate cluster count
// in [2, MaxClusters], scores each candidate, and returns the best model along
// with the per-candidate diagnostic scores. Candidates are scored with the
// mean silhouette coefficient; when ground-truth labels are supplied, the
// adjusted Rand index is computed as well and selection uses it instead.
//
// Basic usage:
//
//	cfg := kselect.DefaultConfig()
//	cfg.MaxClusters = 10
//	cfg.RandomSeed = 42
//	result, err := kselect.Select(data, nil, cfg)
//	// result.NumClusters is the selected cluster count
//	// result.Model is the fitted model at that count
//	// result.Silhouettes[i] is the score for count i+2
//
// With known labels:
//
//	result, err := kselect.Select(data, labels, cfg)
//	// selection maximizes result.ARIs instead; silhouettes are still computed
//
// # Selection policy
//
// The selected count is the candidate with the maximal score, ties broken by
// the lowest count. When labels are supplied the agreement score (ARI) decides;
// the validity scores (silhouettes) are retained for diagnostics either way.
//
// # Collaborators
//
// The fitting primitive and both scoring functions are pluggable through
// Config. The defaults are a seeded k-means++ fitter, SilhouetteScore, and
// AdjustedRandIndex. Set Config.Workers to evaluate candidates in parallel;
// the parallel sweep produces output identical to the sequential one.
package kselect
