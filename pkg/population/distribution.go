package population

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidDistribution is returned when a set of weights cannot be
	// turned into a probability vector.
	ErrInvalidDistribution = errors.New("invalid distribution")

	// ErrInvalidPopulationSize is returned for negative population sizes.
	ErrInvalidPopulationSize = errors.New("invalid population size")
)

// Normalize divides each weight by the sum of all weights.
// The weights must be finite, non-negative and sum to a positive value.
func Normalize(weights []float64) ([]float64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidDistribution)
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %d is not finite", ErrInvalidDistribution, i)
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: weight %d is negative (%v)", ErrInvalidDistribution, i, w)
		}
	}

	sum := floats.Sum(weights)
	if sum <= 0 || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: weights sum to %v", ErrInvalidDistribution, sum)
	}

	probs := make([]float64, len(weights))
	copy(probs, weights)
	floats.Scale(1/sum, probs)
	return probs, nil
}
