package kselect

import "fmt"

// AdjustedRandIndex computes the adjusted Rand index between two partitions
// of the same samples (Hubert & Arabie 1985).
//
// The score counts sample pairs that the two partitions group consistently,
// corrected for chance. It is tolerant of label permutation: cluster 3 in
// truth may correspond to cluster 0 in pred. The result is bounded above by
// 1.0 (identical partitions); independent partitions score near 0, and
// adversarial ones can go negative. In the degenerate limit where both
// partitions are trivial (all samples together, or all apart), the score
// is 1.0.
func AdjustedRandIndex(truth, pred []int) (float64, error) {
	n := len(truth)
	if n == 0 {
		return 0, fmt.Errorf("kselect: adjusted Rand index requires at least 1 sample")
	}
	if len(pred) != n {
		return 0, fmt.Errorf("kselect: label sequences have different lengths: %d and %d", n, len(pred))
	}
	if n == 1 {
		// A single sample admits only one partition.
		return 1.0, nil
	}

	// Contingency table and its marginals.
	cells := make(map[[2]int]int)
	rowSums := make(map[int]int)
	colSums := make(map[int]int)
	for i := range truth {
		cells[[2]int{truth[i], pred[i]}]++
		rowSums[truth[i]]++
		colSums[pred[i]]++
	}

	var index float64
	for _, c := range cells {
		index += pairs(c)
	}
	var rowPairs, colPairs float64
	for _, c := range rowSums {
		rowPairs += pairs(c)
	}
	for _, c := range colSums {
		colPairs += pairs(c)
	}

	expected := rowPairs * colPairs / pairs(n)
	maxIndex := (rowPairs + colPairs) / 2

	// Both partitions trivial: the Rand index is 1 and there is nothing to
	// adjust for.
	if maxIndex == expected {
		return 1.0, nil
	}
	return (index - expected) / (maxIndex - expected), nil
}

// pairs returns C(c, 2), the number of unordered sample pairs in a group of c.
func pairs(c int) float64 {
	return float64(c) * float64(c-1) / 2
}
