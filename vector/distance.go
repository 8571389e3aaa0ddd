package vector

import (
	"fmt"
	"math"

	"github.com/arenvale/vecpg/core"
)

// L2Distance returns the Euclidean distance between two vectors.
func L2Distance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// L1Distance returns the Manhattan distance between two vectors.
func L1Distance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum
}

// NegInnerProduct returns the negated inner product of two vectors.
func NegInnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return -dot
}

// CosineDistance returns 1 minus the cosine similarity of two vectors.
// Zero-norm inputs yield 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Distance computes the distance between a and b under the given
// algorithm, matching the semantics of the SQL operators.
func Distance(alg core.Algorithm, a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d != %d", len(a), len(b))
	}

	switch alg {
	case core.AlgorithmL2:
		return L2Distance(a, b), nil
	case core.AlgorithmL1:
		return L1Distance(a, b), nil
	case core.AlgorithmNegativeInnerProduct:
		return NegInnerProduct(a, b), nil
	case core.AlgorithmCosine:
		return CosineDistance(a, b), nil
	}
	return 0, fmt.Errorf("%w: %s", core.ErrUnknownAlgorithm, alg)
}
