package analytics

import (
	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
)

// Result is the output of one synthesis run.
type Result struct {
	RunID      string           `json:"run_id"`
	Seed       uint64           `json:"seed"`
	Population int              `json:"population"`
	Table      string           `json:"table"`
	Policy     resources.Policy `json:"policy"`

	Counts       population.Counts                                      `json:"counts"`
	Resources    map[resources.Resource]map[population.Category]float64 `json:"resources"`
	Totals       resources.Coefficients                                 `json:"totals"`
	Demographics []AttributeBreakdown                                   `json:"demographics"`
	Dwellings    []DwellingCount                                        `json:"dwellings"`
	Rules        []RuleCount                                            `json:"rules"`
	Individuals  []population.Individual                                `json:"individuals,omitempty"`

	usage *resources.Usage
}

// Usage returns the aggregated resource demand.
func (r *Result) Usage() *resources.Usage {
	return r.usage
}

// WithoutIndividuals returns a shallow copy of r with the population list
// dropped, for compact output.
func (r *Result) WithoutIndividuals() *Result {
	c := *r
	c.Individuals = nil
	return &c
}

// LabelCount is the number of individuals sharing one attribute value.
type LabelCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// AttributeBreakdown tallies one sampled attribute across the population.
type AttributeBreakdown struct {
	Attribute string       `json:"attribute"`
	Values    []LabelCount `json:"values"`
}

// DwellingCount is the number of dwelling units implied by the residents of
// one category at the profile occupancy.
type DwellingCount struct {
	Category  population.Category `json:"category"`
	Residents int                 `json:"residents"`
	Occupancy float64             `json:"occupancy"`
	Units     int                 `json:"units"`
}

// RuleCount is the number of individuals placed by one classification rule.
type RuleCount struct {
	Rule     int                 `json:"rule"`
	Name     string              `json:"name"`
	Category population.Category `json:"category"`
	Count    int                 `json:"count"`
}
