package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
	"github.com/ChicagoDave/popsim/pkg/spec"
	"github.com/go-playground/validator/v10"
)

// specValidate checks struct tags on spec.RunSpec. Field names are reported
// by their YAML keys so spec paths match the file the user edits.
var specValidate *validator.Validate

func init() {
	specValidate = validator.New()
	specValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ValidateSchema performs Level 1 (schema) validation on a parsed RunSpec.
// It checks structural correctness before any sampling.
func ValidateSchema(s *spec.RunSpec) *Report {
	r := NewReport()

	validateStruct(s, r)
	validateDistributions(s, r)
	validateIncome(s, r)
	validateResources(s, r)

	return r
}

func validateStruct(s *spec.RunSpec, r *Report) {
	err := specValidate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: fmt.Sprintf("spec could not be checked: %v", err),
		})
		return
	}

	for _, fe := range fieldErrs {
		path := specPath(fe.Namespace())
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s failed %q check", path, fe.Tag()),
			SpecPath:    path,
			ActualValue: fe.Value(),
			Expected:    expectedFor(fe),
		})
	}
}

// specPath drops the root type name from a validator namespace.
func specPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func expectedFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "> " + fe.Param()
	case "gte":
		return ">= " + fe.Param()
	case "lte":
		return "<= " + fe.Param()
	case "len":
		return fmt.Sprintf("exactly %s values", fe.Param())
	case "min":
		return fmt.Sprintf("at least %s values", fe.Param())
	case "required":
		return "a non-empty value"
	case "oneof":
		return "one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fe.Tag()
}

func validateDistributions(s *spec.RunSpec, r *Report) {
	d := s.Distributions
	weights := []struct {
		name string
		w    []float64
	}{
		{"age", d.Age},
		{"gender", d.Gender},
		{"education", d.Education},
		{"employment", d.Employment},
		{"income.weights", d.Income.Weights},
		{"social_status", d.SocialStatus},
	}

	for _, dist := range weights {
		if len(dist.w) == 0 {
			continue
		}
		if _, err := population.Normalize(dist.w); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("distributions.%s cannot be normalized: %v", dist.name, err),
				SpecPath:    fmt.Sprintf("distributions.%s", dist.name),
				ActualValue: dist.w,
				Expected:    "non-negative finite weights with a positive sum",
				Suggestions: []string{"Give at least one outcome a positive weight"},
			})
		}
	}

	if math.IsNaN(d.RelativesAbroad) {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "distributions.relatives_abroad is not a number",
			SpecPath: "distributions.relatives_abroad",
			Expected: "0-1",
		})
	}
}

func validateIncome(s *spec.RunSpec, r *Report) {
	inc := s.Distributions.Income
	if len(inc.Values) != len(inc.Weights) {
		r.AddError(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("income has %d values but %d weights", len(inc.Values), len(inc.Weights)),
			SpecPath:     "distributions.income.weights",
			ActualValue:  len(inc.Weights),
			Expected:     fmt.Sprintf("%d weights (one per income value)", len(inc.Values)),
			ConflictWith: "distributions.income.values",
		})
	}

	seen := make(map[float64]bool, len(inc.Values))
	for i, v := range inc.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("income value %d is not finite", i),
				SpecPath:    fmt.Sprintf("distributions.income.values[%d]", i),
				ActualValue: v,
			})
			continue
		}
		if seen[v] {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("income value %v is listed more than once; its weights add up", v),
				SpecPath:    fmt.Sprintf("distributions.income.values[%d]", i),
				ActualValue: v,
			})
		}
		seen[v] = true
	}
}

func validateResources(s *spec.RunSpec, r *Report) {
	sel := s.Resources
	if sel.Table == "" {
		// Reported by the struct tags.
		return
	}

	table, ok := sel.ProfileTable()
	if !ok {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown resource table %q", sel.Table),
			SpecPath:    "resources.table",
			ActualValue: sel.Table,
			Expected:    "one of: " + strings.Join(append(resources.TableNames(), spec.TableCustom), ", "),
		})
		return
	}

	if sel.Table != spec.TableCustom {
		if len(sel.Profiles) > 0 {
			r.AddWarning(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("resources.profiles is ignored when table is %q", sel.Table),
				SpecPath: "resources.profiles",
				Suggestions: []string{
					fmt.Sprintf("Set resources.table to %q to use these profiles", spec.TableCustom),
				},
			})
		}
		_, native, _ := resources.BuiltinTable(sel.Table)
		if sel.Policy.Valid() && native != sel.Policy {
			r.AddWarning(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("table %q is expressed for %s but policy is %s", sel.Table, native, sel.Policy),
				SpecPath:     "resources.policy",
				ActualValue:  sel.Policy,
				Expected:     string(native),
				ConflictWith: "resources.table",
			})
		}
	}

	if sel.Table == spec.TableCustom {
		for cat := range table {
			if !cat.Valid() {
				r.AddError(Result{
					Level:       LevelSchema,
					Message:     fmt.Sprintf("resources.profiles has unknown category %q", cat),
					SpecPath:    fmt.Sprintf("resources.profiles.%s", cat),
					ActualValue: string(cat),
				})
			}
		}
		for _, cat := range population.Categories() {
			if cat == population.Undefined {
				continue
			}
			if _, ok := table[cat]; !ok {
				r.AddError(Result{
					Level:    LevelSchema,
					Message:  fmt.Sprintf("resources.profiles is missing %s", cat),
					SpecPath: fmt.Sprintf("resources.profiles.%s", cat),
					Expected: "a profile for every accommodation category",
				})
			}
		}
		if p, ok := table[population.Undefined]; ok && p.Coefficients != (resources.Coefficients{}) {
			r.AddInfo(Result{
				Level:    LevelSchema,
				Message:  "Undefined profile coefficients are ignored; undefined demand is always zero",
				SpecPath: "resources.profiles.Undefined",
			})
		}
	}

	if !sel.Policy.Valid() {
		return
	}
	if _, err := resources.Daily(table, sel.Policy); err != nil && !errors.Is(err, resources.ErrUnknownCategory) {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  fmt.Sprintf("resource profiles cannot be used with %s: %v", sel.Policy, err),
			SpecPath: "resources",
		})
	}
}
