package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ChicagoDave/popsim/pkg/resources"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the run spec file name inside a project directory.
const ProjectFile = "population.yaml"

// Load reads a run spec from a YAML file. Fields missing from the file keep
// their Default values.
func Load(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	spec := Default()
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}

	return spec, nil
}

// LoadProject loads a run spec from a project directory.
// It looks for population.yaml in the given directory.
func LoadProject(projectDir string) (*RunSpec, error) {
	specPath := filepath.Join(projectDir, ProjectFile)
	return Load(specPath)
}

// Default returns the reference configuration: 100 people drawn from the
// reference weights, aggregated with the european table.
func Default() *RunSpec {
	return &RunSpec{
		SpecVersion: "0.1.0",
		Population:  100,
		Distributions: Distributions{
			Age:          []float64{0.66, 0.34},
			Gender:       []float64{0.49, 0.51},
			Education:    []float64{0.1, 0.2, 0.2, 0.2, 0.2, 0.1},
			Employment:   []float64{0.8, 0.2},
			SocialStatus: []float64{0.6, 0.4},
			Income: IncomeDistribution{
				Values:  []float64{100, 350, 1000},
				Weights: []float64{0.4, 0.3, 0.3},
			},
			RelativesAbroad: 0.2,
		},
		Resources: ResourceSelection{
			Table:  resources.TableEuropean,
			Policy: resources.PolicyAnnualToDaily,
		},
	}
}

// Clone returns a deep copy of s.
func (s *RunSpec) Clone() *RunSpec {
	c := *s
	d := &c.Distributions
	d.Age = cloneFloats(s.Distributions.Age)
	d.Gender = cloneFloats(s.Distributions.Gender)
	d.Education = cloneFloats(s.Distributions.Education)
	d.Employment = cloneFloats(s.Distributions.Employment)
	d.SocialStatus = cloneFloats(s.Distributions.SocialStatus)
	d.Income.Values = cloneFloats(s.Distributions.Income.Values)
	d.Income.Weights = cloneFloats(s.Distributions.Income.Weights)
	if s.Resources.Profiles != nil {
		c.Resources.Profiles = resources.Table(s.Resources.Profiles).Clone()
	}
	return &c
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
