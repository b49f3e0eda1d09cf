package analytics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
	"github.com/ChicagoDave/popsim/pkg/spec"
	"github.com/ChicagoDave/popsim/pkg/validation"
	"github.com/google/uuid"
)

// Resolve validates the spec, synthesizes the population, classifies it and
// aggregates resource demand. The returned report carries schema findings
// and analytical findings about the completed run. A spec with schema errors
// is rejected before any sampling.
func Resolve(ctx context.Context, s *spec.RunSpec) (*Result, *validation.Report, error) {
	report := validation.ValidateSchema(s)
	if !report.Valid {
		return nil, report, report.Err()
	}

	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	// 1. Sampler
	sampler, err := population.NewSampler(s.Distributions.SamplerConfig(), NewSource(seed))
	if err != nil {
		return nil, report, fmt.Errorf("building sampler: %w", err)
	}

	// 2. Population
	pop, err := population.Synthesize(ctx, s.Population, sampler)
	if err != nil {
		return nil, report, err
	}

	// 3. Resources
	table, ok := s.Resources.ProfileTable()
	if !ok {
		return nil, report, fmt.Errorf("unknown resource table %q", s.Resources.Table)
	}
	usage, err := resources.Aggregate(pop.Individuals, table, s.Resources.Policy)
	if err != nil {
		return nil, report, fmt.Errorf("aggregating resources: %w", err)
	}

	res := &Result{
		RunID:        uuid.NewString(),
		Seed:         seed,
		Population:   pop.Size(),
		Table:        s.Resources.Table,
		Policy:       s.Resources.Policy,
		Counts:       pop.Counts,
		Resources:    make(map[resources.Resource]map[population.Category]float64),
		Totals:       usage.Totals(),
		Demographics: resolveDemographics(pop.Individuals, s.Distributions.Income.Values),
		Dwellings:    resolveDwellings(pop.Counts, table),
		Rules:        resolveRuleCounts(pop.Individuals),
		Individuals:  pop.Individuals,
		usage:        usage,
	}
	for _, r := range resources.Resources() {
		res.Resources[r] = usage.Resource(r)
	}

	// 4. Analytical validation
	report.Merge(validateAnalytical(res))

	return res, report, nil
}

// NewSource returns the random source used for a run seeded with seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
