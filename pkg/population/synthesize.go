package population

import (
	"context"
	"fmt"
)

// Population is the result of one synthesis run.
type Population struct {
	Individuals []Individual `json:"individuals,omitempty"`
	Counts      Counts       `json:"counts"`
}

// Size returns the number of synthesized individuals.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// Synthesize draws n individuals from src, classifies each one and tallies
// the categories. Cancellation is checked between draws; a cancelled run
// returns no population.
func Synthesize(ctx context.Context, n int, src AttributeSource) (*Population, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPopulationSize, n)
	}

	pop := &Population{
		Individuals: make([]Individual, 0, n),
		Counts:      NewCounts(),
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synthesis stopped after %d of %d individuals: %w", i, n, err)
		}
		ind := NewIndividual(src.Sample())
		pop.Counts[ind.Accommodation]++
		pop.Individuals = append(pop.Individuals, ind)
	}

	return pop, nil
}
