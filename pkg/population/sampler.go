package population

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SamplerConfig holds the raw attribute weights for a run. Weight slices are
// aligned with AgeBrackets, Genders, EducationLevels, EmploymentStatuses and
// SocialStatuses; IncomeWeights is aligned with IncomeLevels.
type SamplerConfig struct {
	Age             []float64
	Gender          []float64
	Education       []float64
	Employment      []float64
	IncomeLevels    []float64
	IncomeWeights   []float64
	SocialStatus    []float64
	RelativesAbroad float64
}

// AttributeSource produces unclassified individuals.
type AttributeSource interface {
	Sample() Attributes
}

// Sampler draws independent attributes from categorical distributions.
type Sampler struct {
	age          distuv.Categorical
	gender       distuv.Categorical
	education    distuv.Categorical
	employment   distuv.Categorical
	income       distuv.Categorical
	social       distuv.Categorical
	relatives    distuv.Bernoulli
	incomeLevels []float64
}

// NewSampler validates and normalizes every distribution in cfg before
// returning a sampler bound to src.
func NewSampler(cfg SamplerConfig, src rand.Source) (*Sampler, error) {
	age, err := categorical("age", cfg.Age, len(AgeBrackets), src)
	if err != nil {
		return nil, err
	}
	gender, err := categorical("gender", cfg.Gender, len(Genders), src)
	if err != nil {
		return nil, err
	}
	education, err := categorical("education", cfg.Education, len(EducationLevels), src)
	if err != nil {
		return nil, err
	}
	employment, err := categorical("employment", cfg.Employment, len(EmploymentStatuses), src)
	if err != nil {
		return nil, err
	}
	if len(cfg.IncomeLevels) == 0 {
		return nil, fmt.Errorf("income: %w: no income levels", ErrInvalidDistribution)
	}
	for i, v := range cfg.IncomeLevels {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("income: %w: level %d is not finite", ErrInvalidDistribution, i)
		}
	}
	income, err := categorical("income", cfg.IncomeWeights, len(cfg.IncomeLevels), src)
	if err != nil {
		return nil, err
	}
	social, err := categorical("social_status", cfg.SocialStatus, len(SocialStatuses), src)
	if err != nil {
		return nil, err
	}

	p := cfg.RelativesAbroad
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("relatives_abroad: %w: probability %v outside [0, 1]", ErrInvalidDistribution, p)
	}

	levels := make([]float64, len(cfg.IncomeLevels))
	copy(levels, cfg.IncomeLevels)

	return &Sampler{
		age:          age,
		gender:       gender,
		education:    education,
		employment:   employment,
		income:       income,
		social:       social,
		relatives:    distuv.Bernoulli{P: p, Src: src},
		incomeLevels: levels,
	}, nil
}

func categorical(name string, weights []float64, want int, src rand.Source) (distuv.Categorical, error) {
	if len(weights) != want {
		return distuv.Categorical{}, fmt.Errorf("%s: %w: want %d weights, got %d", name, ErrInvalidDistribution, want, len(weights))
	}
	probs, err := Normalize(weights)
	if err != nil {
		return distuv.Categorical{}, fmt.Errorf("%s: %w", name, err)
	}
	return distuv.NewCategorical(probs, src), nil
}

// Sample draws one individual's attributes. Draws happen in a fixed order so
// a seeded source always yields the same sequence.
func (s *Sampler) Sample() Attributes {
	return Attributes{
		Age:             AgeBrackets[int(s.age.Rand())],
		Gender:          Genders[int(s.gender.Rand())],
		Education:       EducationLevels[int(s.education.Rand())],
		Employment:      EmploymentStatuses[int(s.employment.Rand())],
		Income:          s.incomeLevels[int(s.income.Rand())],
		SocialStatus:    SocialStatuses[int(s.social.Rand())],
		RelativesAbroad: s.relatives.Rand() == 1,
	}
}
