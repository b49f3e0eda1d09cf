package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
	"github.com/ChicagoDave/popsim/pkg/spec"
	"github.com/ChicagoDave/popsim/pkg/validation"
)

func seededSpec(seed uint64, n int) *spec.RunSpec {
	s := spec.Default()
	s.Seed = seed
	s.Population = n
	return s
}

func TestResolveDefaultRun(t *testing.T) {
	res, report, err := Resolve(context.Background(), seededSpec(42, 1000))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !report.Valid {
		t.Errorf("expected valid report, got %v", report.Errors)
	}

	if res.Population != 1000 {
		t.Errorf("population = %d, want 1000", res.Population)
	}
	if res.Counts.Total() != 1000 {
		t.Errorf("counts total = %d, want 1000", res.Counts.Total())
	}
	if len(res.Individuals) != 1000 {
		t.Errorf("individuals = %d, want 1000", len(res.Individuals))
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if res.Seed != 42 {
		t.Errorf("seed = %d, want 42", res.Seed)
	}
	if len(res.Resources) != 5 {
		t.Fatalf("expected 5 resource mappings, got %d", len(res.Resources))
	}
	for r, byCat := range res.Resources {
		if len(byCat) != 6 {
			t.Errorf("%s mapping has %d categories, want 6", r, len(byCat))
		}
		if byCat[population.Undefined] != 0 {
			t.Errorf("%s undefined = %v, want 0", r, byCat[population.Undefined])
		}
	}

	// Income 100 always lands in the middle band.
	if res.Counts[population.StandardApartment] == 0 {
		t.Error("expected standard apartments from income 100")
	}
	// The reference income domain never reaches the low-income rules.
	if res.Counts[population.SharedHousing] != 0 || res.Counts[population.PublicHousing] != 0 {
		t.Errorf("unexpected low-income categories: %v", res.Counts)
	}
}

func TestResolveTotalsMatchCounts(t *testing.T) {
	res, _, err := Resolve(context.Background(), seededSpec(7, 300))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	table, _, _ := resources.BuiltinTable(resources.TableEuropean)
	want := 0.0
	for cat, n := range res.Counts {
		if cat == population.Undefined {
			continue
		}
		want += float64(n) * table[cat].Water
	}
	if math.Abs(res.Totals.Water-want) > 1e-6 {
		t.Errorf("total water = %v, want %v", res.Totals.Water, want)
	}
	if math.Abs(res.Usage().Total(resources.Water)-res.Totals.Water) > 1e-9 {
		t.Error("usage total and result total disagree")
	}
}

func TestResolveDeterministic(t *testing.T) {
	a, _, err := Resolve(context.Background(), seededSpec(1234, 500))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	b, _, err := Resolve(context.Background(), seededSpec(1234, 500))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if !reflect.DeepEqual(a.Individuals, b.Individuals) {
		t.Error("same seed produced different individuals")
	}
	if !reflect.DeepEqual(a.Counts, b.Counts) {
		t.Errorf("counts differ: %v vs %v", a.Counts, b.Counts)
	}
	if !reflect.DeepEqual(a.Resources, b.Resources) {
		t.Error("same seed produced different resource totals")
	}
	if a.RunID == b.RunID {
		t.Error("run ids should be unique")
	}
}

func TestResolveDifferentSeeds(t *testing.T) {
	a, _, _ := Resolve(context.Background(), seededSpec(1, 500))
	b, _, _ := Resolve(context.Background(), seededSpec(2, 500))
	if reflect.DeepEqual(a.Individuals, b.Individuals) {
		t.Error("different seeds produced identical populations")
	}
}

func TestResolveZeroSeedPicksOne(t *testing.T) {
	res, _, err := Resolve(context.Background(), seededSpec(0, 10))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Seed == 0 {
		t.Error("expected an effective seed to be reported")
	}
}

func TestResolveRejectsInvalidSpec(t *testing.T) {
	s := seededSpec(1, 10)
	s.Distributions.Employment = []float64{0, 0}

	res, report, err := Resolve(context.Background(), s)
	if res != nil {
		t.Error("invalid spec should not produce a result")
	}
	if !errors.Is(err, validation.ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}
	if report == nil || report.Valid {
		t.Error("expected invalid report")
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Resolve(ctx, seededSpec(1, 100))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestResolveBaselineDirectDaily(t *testing.T) {
	s := seededSpec(9, 200)
	s.Resources.Table = resources.TableBaseline
	s.Resources.Policy = resources.PolicyDirectDaily

	res, _, err := Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := float64(res.Counts[population.House]) * 25
	if got := res.Resources[resources.Heating][population.House]; math.Abs(got-want) > 1e-9 {
		t.Errorf("house heating = %v, want %v", got, want)
	}
}

func TestResolveUndefinedWarning(t *testing.T) {
	s := seededSpec(3, 200)
	// Everybody is a single without a degree on 350: no rule matches.
	s.Distributions.Education = []float64{1, 0, 0, 0, 0, 0}
	s.Distributions.Income.Weights = []float64{0, 1, 0}
	s.Distributions.SocialStatus = []float64{1, 0}

	res, report, err := Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Counts[population.Undefined] != 200 {
		t.Fatalf("undefined = %d, want 200", res.Counts[population.Undefined])
	}
	for r, total := range map[string]float64{
		"water": res.Totals.Water, "electricity": res.Totals.Electricity,
		"heating": res.Totals.Heating, "cooling": res.Totals.Cooling, "land": res.Totals.Land,
	} {
		if total != 0 {
			t.Errorf("%s total = %v, want 0", r, total)
		}
	}

	found := false
	for _, w := range report.Warnings {
		if w.Level == validation.LevelAnalytical && w.SpecPath == "distributions.income" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected undefined-share warning, got %v", report.Warnings)
	}
	if !report.Valid {
		t.Error("undefined individuals are not an error")
	}
}

func TestDemographicsBreakdown(t *testing.T) {
	res, _, err := Resolve(context.Background(), seededSpec(5, 400))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(res.Demographics) != 7 {
		t.Fatalf("expected 7 attributes, got %d", len(res.Demographics))
	}

	for _, b := range res.Demographics {
		total := 0
		share := 0.0
		for _, v := range b.Values {
			total += v.Count
			share += v.Share
		}
		if total != 400 {
			t.Errorf("%s counts sum to %d, want 400", b.Attribute, total)
		}
		if math.Abs(share-1) > 1e-9 {
			t.Errorf("%s shares sum to %v, want 1", b.Attribute, share)
		}
	}

	edu := res.Demographics[2]
	if edu.Attribute != "education" || len(edu.Values) != 6 {
		t.Errorf("education breakdown = %+v", edu)
	}
	income := res.Demographics[4]
	if income.Values[0].Label != "100" || income.Values[2].Label != "1000" {
		t.Errorf("income labels = %+v", income.Values)
	}
}

func TestResolveDwellings(t *testing.T) {
	counts := population.NewCounts()
	counts[population.LuxuryApartment] = 4
	counts[population.House] = 7
	counts[population.Undefined] = 3

	table, _, _ := resources.BuiltinTable(resources.TableEuropean)
	dw := resolveDwellings(counts, table)
	if len(dw) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(dw))
	}

	byCat := make(map[population.Category]DwellingCount)
	for _, d := range dw {
		byCat[d.Category] = d
	}
	// 4 residents at 1.5 per unit need 3 units.
	if byCat[population.LuxuryApartment].Units != 3 {
		t.Errorf("luxury units = %d, want 3", byCat[population.LuxuryApartment].Units)
	}
	// 7 residents at 3 per house need 3 houses.
	if byCat[population.House].Units != 3 {
		t.Errorf("house units = %d, want 3", byCat[population.House].Units)
	}
	if byCat[population.Undefined].Units != 0 {
		t.Errorf("undefined units = %d, want 0", byCat[population.Undefined].Units)
	}
}

func TestWithoutIndividuals(t *testing.T) {
	res, _, err := Resolve(context.Background(), seededSpec(8, 20))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	slim := res.WithoutIndividuals()
	if slim.Individuals != nil {
		t.Error("expected individuals to be dropped")
	}
	if len(res.Individuals) != 20 {
		t.Error("source result should keep its individuals")
	}
}

func TestResolveRuleCounts(t *testing.T) {
	res, _, err := Resolve(context.Background(), seededSpec(12, 600))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	rules := population.Rules()
	if len(res.Rules) != len(rules)+1 {
		t.Fatalf("expected %d rule rows, got %d", len(rules)+1, len(res.Rules))
	}

	total := 0
	byCategory := population.NewCounts()
	for i, rc := range res.Rules {
		if rc.Rule != i+1 {
			t.Errorf("row %d rule = %d, want %d", i, rc.Rule, i+1)
		}
		if rc.Name != population.RuleName(rc.Rule) {
			t.Errorf("rule %d name = %q, want %q", rc.Rule, rc.Name, population.RuleName(rc.Rule))
		}
		total += rc.Count
		byCategory[rc.Category] += rc.Count
	}
	if total != 600 {
		t.Errorf("rule counts sum to %d, want 600", total)
	}
	if !reflect.DeepEqual(byCategory, res.Counts) {
		t.Errorf("rule counts by category = %v, want %v", byCategory, res.Counts)
	}
}

func TestValidateAnalyticalOwnReport(t *testing.T) {
	counts := population.NewCounts()
	counts[population.StandardApartment] = 6
	counts[population.Undefined] = 4
	res := &Result{Population: 10, Counts: counts}

	report := validateAnalytical(res)
	if !report.Valid {
		t.Error("analytical findings should not invalidate the report")
	}
	if len(report.Warnings) != 1 || report.Warnings[0].SpecPath != "distributions.income" {
		t.Errorf("warnings = %v, want one undefined-share warning", report.Warnings)
	}
	// Luxury, Shared, House and Public are empty.
	if len(report.Info) != 4 {
		t.Errorf("info = %d, want 4", len(report.Info))
	}
	for _, r := range append(report.Warnings, report.Info...) {
		if r.Level != validation.LevelAnalytical {
			t.Errorf("finding %q has level %s, want analytical", r.Message, r.Level)
		}
	}
}

func TestResolveMergesAnalyticalFindings(t *testing.T) {
	s := seededSpec(4, 50)
	s.Distributions.Income.Values = []float64{100, 100, 1000}

	_, report, err := Resolve(context.Background(), s)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	var schema, analytical int
	for _, r := range append(report.Warnings, report.Info...) {
		switch r.Level {
		case validation.LevelSchema:
			schema++
		case validation.LevelAnalytical:
			analytical++
		}
	}
	if schema == 0 {
		t.Error("expected the duplicate-income schema warning to survive the merge")
	}
	if analytical == 0 {
		t.Error("expected analytical findings in the merged report")
	}
	want := fmt.Sprintf("%d errors, %d warnings, %d info", len(report.Errors), len(report.Warnings), len(report.Info))
	if report.Summary != want {
		t.Errorf("summary = %q, want %q", report.Summary, want)
	}
}
