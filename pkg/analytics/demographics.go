package analytics

import (
	"math"
	"strconv"

	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
)

// attributeDef extracts one attribute label from an individual and lists
// the labels in display order.
type attributeDef struct {
	name   string
	labels func(incomes []float64) []string
	value  func(ind population.Individual) string
}

func stringLabels[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func incomeLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var attributeDefs = []attributeDef{
	{
		name:   "age",
		labels: func([]float64) []string { return stringLabels(population.AgeBrackets) },
		value:  func(ind population.Individual) string { return string(ind.Age) },
	},
	{
		name:   "gender",
		labels: func([]float64) []string { return stringLabels(population.Genders) },
		value:  func(ind population.Individual) string { return string(ind.Gender) },
	},
	{
		name:   "education",
		labels: func([]float64) []string { return stringLabels(population.EducationLevels) },
		value:  func(ind population.Individual) string { return string(ind.Education) },
	},
	{
		name:   "employment",
		labels: func([]float64) []string { return stringLabels(population.EmploymentStatuses) },
		value:  func(ind population.Individual) string { return string(ind.Employment) },
	},
	{
		name: "income",
		labels: func(incomes []float64) []string {
			out := make([]string, 0, len(incomes))
			seen := make(map[string]bool, len(incomes))
			for _, v := range incomes {
				l := incomeLabel(v)
				if !seen[l] {
					seen[l] = true
					out = append(out, l)
				}
			}
			return out
		},
		value: func(ind population.Individual) string { return incomeLabel(ind.Income) },
	},
	{
		name:   "social_status",
		labels: func([]float64) []string { return stringLabels(population.SocialStatuses) },
		value:  func(ind population.Individual) string { return string(ind.SocialStatus) },
	},
	{
		name:   "relatives_abroad",
		labels: func([]float64) []string { return []string{"Yes", "No"} },
		value: func(ind population.Individual) string {
			if ind.RelativesAbroad {
				return "Yes"
			}
			return "No"
		},
	},
}

// resolveDemographics tallies every sampled attribute. Labels appear in
// display order and include values nobody drew.
func resolveDemographics(individuals []population.Individual, incomes []float64) []AttributeBreakdown {
	out := make([]AttributeBreakdown, 0, len(attributeDefs))
	n := len(individuals)

	for _, def := range attributeDefs {
		labels := def.labels(incomes)
		idx := make(map[string]int, len(labels))
		values := make([]LabelCount, len(labels))
		for i, l := range labels {
			idx[l] = i
			values[i] = LabelCount{Label: l}
		}

		for _, ind := range individuals {
			l := def.value(ind)
			i, ok := idx[l]
			if !ok {
				i = len(values)
				idx[l] = i
				values = append(values, LabelCount{Label: l})
			}
			values[i].Count++
		}

		if n > 0 {
			for i := range values {
				values[i].Share = float64(values[i].Count) / float64(n)
			}
		}
		out = append(out, AttributeBreakdown{Attribute: def.name, Values: values})
	}

	return out
}

// resolveDwellings computes the dwelling units needed to house each
// category's residents at the profile occupancy. Categories without an
// occupancy, and Undefined, get zero units.
func resolveDwellings(counts population.Counts, table resources.Table) []DwellingCount {
	out := make([]DwellingCount, 0, len(counts))
	for _, cat := range population.Categories() {
		residents := counts[cat]
		occ := table[cat].Occupancy

		units := 0
		if cat != population.Undefined && residents > 0 && occ > 0 {
			units = int(math.Ceil(float64(residents) / occ))
		}

		out = append(out, DwellingCount{
			Category:  cat,
			Residents: residents,
			Occupancy: occ,
			Units:     units,
		})
	}
	return out
}

// resolveRuleCounts tallies which rule placed each individual, listing every
// rule in evaluation order followed by the fallback.
func resolveRuleCounts(individuals []population.Individual) []RuleCount {
	rules := population.Rules()
	out := make([]RuleCount, 0, len(rules)+1)
	for i, r := range rules {
		out = append(out, RuleCount{Rule: i + 1, Name: r.Name, Category: r.Category})
	}
	out = append(out, RuleCount{
		Rule:     len(rules) + 1,
		Name:     population.RuleName(len(rules) + 1),
		Category: population.Undefined,
	})

	for _, ind := range individuals {
		_, n := population.ClassifyRule(ind.Attributes)
		out[n-1].Count++
	}
	return out
}
