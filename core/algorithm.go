package core

import "fmt"

// Algorithm selects the distance operator used for similarity queries.
// The zero value is AlgorithmCosine.
type Algorithm int

const (
	AlgorithmCosine Algorithm = iota
	AlgorithmL2
	AlgorithmL1
	AlgorithmNegativeInnerProduct
)

var algorithmNames = map[Algorithm]string{
	AlgorithmCosine:               "cosine",
	AlgorithmL2:                   "l2",
	AlgorithmL1:                   "l1",
	AlgorithmNegativeInnerProduct: "negative_inner_product",
}

var algorithmValues = map[string]Algorithm{
	"cosine":                 AlgorithmCosine,
	"l2":                     AlgorithmL2,
	"l1":                     AlgorithmL1,
	"negative_inner_product": AlgorithmNegativeInnerProduct,
}

var algorithmOperators = map[Algorithm]string{
	AlgorithmCosine:               "<=>",
	AlgorithmL2:                   "<->",
	AlgorithmL1:                   "<+>",
	AlgorithmNegativeInnerProduct: "<#>",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// Operator returns the SQL distance operator for the algorithm. There is
// no fallback: an unrecognized algorithm is a configuration error.
func (a Algorithm) Operator() (string, error) {
	op, ok := algorithmOperators[a]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return op, nil
}

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	_, ok := algorithmOperators[a]
	return ok
}

// ParseAlgorithm maps the textual algorithm name to its Algorithm value.
func ParseAlgorithm(s string) (Algorithm, error) {
	a, ok := algorithmValues[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
	return a, nil
}
