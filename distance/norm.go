package distance

import (
	"fmt"

	"github.com/hupe1980/voctree/model"
)

// Kind identifies a built-in descriptor norm.
type Kind int

const (
	// L2 is the Euclidean norm (default).
	L2 Kind = iota
	// L1 is the Manhattan norm.
	L1
)

func (k Kind) String() string {
	switch k {
	case L2:
		return "L2"
	case L1:
		return "L1"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Norm normalizes sparse TF-IDF descriptors and scores candidate matches.
//
// Normalize and Distance must agree on the same norm: Distance assumes both
// descriptors it is implicitly comparing have been run through Normalize,
// which is what lets it compute the full distance from the shared words only.
type Norm interface {
	// Normalize rescales weights in place so the vector has unit norm.
	// An all-zero vector is left unchanged.
	Normalize(weights []float32)

	// Distance returns the descriptor distance between the query and a
	// database image given only their shared words. 0 = identical.
	Distance(words []model.CommonWord) float32
}

// NewNorm returns the Norm implementation for the given kind.
// An unrecognized kind is a configuration error and is rejected here, at
// construction time, so no call-time failure path exists.
func NewNorm(k Kind) (Norm, error) {
	switch k {
	case L2:
		return NormL2{}, nil
	case L1:
		return NormL1{}, nil
	default:
		return nil, fmt.Errorf("unsupported norm: %v", k)
	}
}

// NormL2 implements Norm using the Euclidean norm.
//
// For unit vectors q and d, ||q-d||^2 = ||q||^2 + ||d||^2 - 2*dot(q, d)
// = 2 - 2*sum(q[i]*d[i]), and only shared words contribute to the sum.
type NormL2 struct{}

// Normalize implements Norm.
func (NormL2) Normalize(weights []float32) {
	norm2 := Dot(weights, weights)
	if norm2 == 0 {
		return
	}

	ScaleInPlace(weights, 1/Sqrt(norm2))
}

// Distance implements Norm.
func (NormL2) Distance(words []model.CommonWord) float32 {
	var sum float32
	for i := range words {
		sum += words[i].QueryWeight * words[i].ImageWeight
	}

	return 2 - 2*sum
}

// NormL1 implements Norm using the Manhattan norm.
//
// For unit vectors q and d, |q-d|_1 = 2 + sum(|q[i]-d[i]| - q[i] - d[i])
// over the shared words: words unique to either side contribute their full
// weight, which the leading 2 accounts for.
type NormL1 struct{}

// Normalize implements Norm.
func (NormL1) Normalize(weights []float32) {
	var total float32
	for _, w := range weights {
		if w < 0 {
			total -= w
		} else {
			total += w
		}
	}

	if total == 0 {
		return
	}

	ScaleInPlace(weights, 1/total)
}

// Distance implements Norm.
func (NormL1) Distance(words []model.CommonWord) float32 {
	var sum float32
	for i := range words {
		q, d := words[i].QueryWeight, words[i].ImageWeight

		diff := q - d
		if diff < 0 {
			diff = -diff
		}

		sum += diff - q - d
	}

	return 2 + sum
}
