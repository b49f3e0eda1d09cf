package spec

import (
	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
)

// TableCustom selects the profiles listed in the run spec instead of a
// built-in table.
const TableCustom = "custom"

// RunSpec is the complete configuration of one synthesis run.
type RunSpec struct {
	SpecVersion   string            `yaml:"spec_version" json:"spec_version"`
	Seed          uint64            `yaml:"seed" json:"seed"`
	Population    int               `yaml:"population" json:"population" validate:"gt=0,lte=10000000"`
	Distributions Distributions     `yaml:"distributions" json:"distributions"`
	Resources     ResourceSelection `yaml:"resources" json:"resources"`
}

// Distributions holds the attribute weights. Each slice is aligned with the
// canonical label order of its attribute.
type Distributions struct {
	Age             []float64          `yaml:"age" json:"age" validate:"len=2,dive,gte=0"`
	Gender          []float64          `yaml:"gender" json:"gender" validate:"len=2,dive,gte=0"`
	Education       []float64          `yaml:"education" json:"education" validate:"len=6,dive,gte=0"`
	Employment      []float64          `yaml:"employment" json:"employment" validate:"len=2,dive,gte=0"`
	Income          IncomeDistribution `yaml:"income" json:"income"`
	SocialStatus    []float64          `yaml:"social_status" json:"social_status" validate:"len=2,dive,gte=0"`
	RelativesAbroad float64            `yaml:"relatives_abroad" json:"relatives_abroad" validate:"gte=0,lte=1"`
}

// IncomeDistribution pairs discrete income levels with their weights.
type IncomeDistribution struct {
	Values  []float64 `yaml:"values" json:"values" validate:"min=1"`
	Weights []float64 `yaml:"weights" json:"weights" validate:"min=1,dive,gte=0"`
}

// ResourceSelection picks the profile table and how its heating and
// cooling coefficients are normalized.
type ResourceSelection struct {
	Table    string                                    `yaml:"table" json:"table" validate:"required"`
	Policy   resources.Policy                          `yaml:"policy" json:"policy" validate:"required,oneof=annual_to_daily direct_daily"`
	Profiles map[population.Category]resources.Profile `yaml:"profiles,omitempty" json:"profiles,omitempty"`
}

// SamplerConfig converts the distributions into sampler input.
func (d Distributions) SamplerConfig() population.SamplerConfig {
	return population.SamplerConfig{
		Age:             d.Age,
		Gender:          d.Gender,
		Education:       d.Education,
		Employment:      d.Employment,
		IncomeLevels:    d.Income.Values,
		IncomeWeights:   d.Income.Weights,
		SocialStatus:    d.SocialStatus,
		RelativesAbroad: d.RelativesAbroad,
	}
}

// ProfileTable returns the table named by the selection, or the custom
// profiles when Table is "custom". The bool is false for an unknown name.
func (r ResourceSelection) ProfileTable() (resources.Table, bool) {
	if r.Table == TableCustom {
		return resources.Table(r.Profiles).Clone(), true
	}
	t, _, ok := resources.BuiltinTable(r.Table)
	return t, ok
}
