package postprocess

import "gonum.org/v1/gonum/floats"

// ClassWeights returns inverse-frequency weights for numClasses classes from
// a list of label class ids. Classes that never occur count as one
// occurrence. The weights sum to 1. Ids outside [0, numClasses) are ignored.
//
// Arguments:
//   - labels: Class id of every label in a dataset.
//   - numClasses: Number of classes.
//
// Returns:
//   - The weights, or nil if labels is empty or numClasses <= 0.
func ClassWeights(labels []int, numClasses int) []float64 {
	if len(labels) == 0 || numClasses <= 0 {
		return nil
	}

	counts := make([]float64, numClasses)
	for _, c := range labels {
		if c >= 0 && c < numClasses {
			counts[c]++
		}
	}

	weights := make([]float64, numClasses)
	for i, n := range counts {
		weights[i] = 1 / max(n, 1)
	}
	floats.Scale(1/floats.Sum(weights), weights)
	return weights
}
