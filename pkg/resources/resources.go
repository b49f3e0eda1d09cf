package resources

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ChicagoDave/popsim/pkg/population"
)

var (
	// ErrUnknownCategory is returned when an individual's category has no
	// profile in the table.
	ErrUnknownCategory = errors.New("unknown accommodation category")

	// ErrUnknownPolicy is returned for a normalization policy other than
	// PolicyDirectDaily or PolicyAnnualToDaily.
	ErrUnknownPolicy = errors.New("unknown normalization policy")

	// ErrInvalidProfile is returned for negative coefficients or a missing
	// occupancy under the annual policy.
	ErrInvalidProfile = errors.New("invalid resource profile")
)

// Resource names one of the five aggregated quantities.
type Resource string

const (
	Water       Resource = "water"
	Electricity Resource = "electricity"
	Heating     Resource = "heating"
	Cooling     Resource = "cooling"
	Land        Resource = "land"
)

var resourceOrder = []Resource{Water, Electricity, Heating, Cooling, Land}

// Resources returns the five resources in display order.
func Resources() []Resource {
	out := make([]Resource, len(resourceOrder))
	copy(out, resourceOrder)
	return out
}

// Unit returns the daily per-person unit of a resource.
func (r Resource) Unit() string {
	switch r {
	case Water:
		return "L/day"
	case Electricity:
		return "kWh/day"
	case Heating, Cooling:
		return "MJ/day"
	case Land:
		return "m²"
	}
	return ""
}

// Policy selects how heating and cooling coefficients are interpreted.
type Policy string

const (
	// PolicyDirectDaily sums every coefficient as given.
	PolicyDirectDaily Policy = "direct_daily"
	// PolicyAnnualToDaily treats heating and cooling as MJ/m²/year and
	// converts them to MJ/person/day using the profile occupancy.
	PolicyAnnualToDaily Policy = "annual_to_daily"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyDirectDaily || p == PolicyAnnualToDaily
}

// Coefficients is a per-person quantity for each resource.
type Coefficients struct {
	Water       float64 `yaml:"water" json:"water"`
	Electricity float64 `yaml:"electricity" json:"electricity"`
	Heating     float64 `yaml:"heating" json:"heating"`
	Cooling     float64 `yaml:"cooling" json:"cooling"`
	Land        float64 `yaml:"land" json:"land"`
}

// Get returns the coefficient for r.
func (c Coefficients) Get(r Resource) float64 {
	switch r {
	case Water:
		return c.Water
	case Electricity:
		return c.Electricity
	case Heating:
		return c.Heating
	case Cooling:
		return c.Cooling
	case Land:
		return c.Land
	}
	return 0
}

func (c Coefficients) add(o Coefficients) Coefficients {
	return Coefficients{
		Water:       c.Water + o.Water,
		Electricity: c.Electricity + o.Electricity,
		Heating:     c.Heating + o.Heating,
		Cooling:     c.Cooling + o.Cooling,
		Land:        c.Land + o.Land,
	}
}

func (c Coefficients) scale(f float64) Coefficients {
	return Coefficients{
		Water:       c.Water * f,
		Electricity: c.Electricity * f,
		Heating:     c.Heating * f,
		Cooling:     c.Cooling * f,
		Land:        c.Land * f,
	}
}

// Profile is the resource demand of one accommodation category.
type Profile struct {
	Coefficients `yaml:",inline"`
	Occupancy    float64 `yaml:"occupancy" json:"occupancy"`
}

// Table maps every accommodation category to its profile.
type Table map[population.Category]Profile

// Clone returns a copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// BuiltinTable returns a copy of a named table and the policy its
// coefficients are expressed in.
func BuiltinTable(name string) (Table, Policy, bool) {
	b, ok := builtinTables[name]
	if !ok {
		return nil, "", false
	}
	return b.table.Clone(), b.policy, true
}

// TableNames returns the built-in table names, sorted.
func TableNames() []string {
	names := make([]string, 0, len(builtinTables))
	for name := range builtinTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Daily converts a table to per-person daily coefficients under policy.
// Undefined always maps to zero coefficients, whether or not the table
// lists it.
func Daily(t Table, policy Policy) (map[population.Category]Coefficients, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	daily := make(map[population.Category]Coefficients, len(t))
	for cat, p := range t {
		if !cat.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
		}
		if cat == population.Undefined {
			daily[cat] = Coefficients{}
			continue
		}
		if err := checkProfile(cat, p, policy); err != nil {
			return nil, err
		}
		c := p.Coefficients
		if policy == PolicyAnnualToDaily {
			c.Heating = c.Heating * p.Occupancy / DaysPerYear
			c.Cooling = c.Cooling * p.Occupancy / DaysPerYear
		}
		daily[cat] = c
	}
	daily[population.Undefined] = Coefficients{}
	return daily, nil
}

func checkProfile(cat population.Category, p Profile, policy Policy) error {
	for _, r := range resourceOrder {
		v := p.Get(r)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s %s coefficient %v", ErrInvalidProfile, cat, r, v)
		}
	}
	if policy == PolicyAnnualToDaily && !(p.Occupancy > 0) {
		return fmt.Errorf("%w: %s occupancy must be > 0 for %s", ErrInvalidProfile, cat, policy)
	}
	return nil
}

// Usage holds aggregated resource demand per category.
type Usage struct {
	Policy     Policy                               `json:"policy"`
	ByCategory map[population.Category]Coefficients `json:"by_category"`
}

func newUsage(policy Policy) *Usage {
	u := &Usage{Policy: policy, ByCategory: make(map[population.Category]Coefficients)}
	for _, cat := range population.Categories() {
		u.ByCategory[cat] = Coefficients{}
	}
	return u
}

// Resource returns the category → total mapping for r. All categories are
// present.
func (u *Usage) Resource(r Resource) map[population.Category]float64 {
	out := make(map[population.Category]float64, len(u.ByCategory))
	for cat, c := range u.ByCategory {
		out[cat] = c.Get(r)
	}
	return out
}

// Total returns the sum of r over every category.
func (u *Usage) Total(r Resource) float64 {
	sum := 0.0
	for _, cat := range population.Categories() {
		sum += u.ByCategory[cat].Get(r)
	}
	return sum
}

// Totals returns the scalar sum of every resource.
func (u *Usage) Totals() Coefficients {
	var sum Coefficients
	for _, cat := range population.Categories() {
		sum = sum.add(u.ByCategory[cat])
	}
	return sum
}

// Aggregate sums the daily coefficients of each individual's category.
func Aggregate(individuals []population.Individual, t Table, policy Policy) (*Usage, error) {
	daily, err := Daily(t, policy)
	if err != nil {
		return nil, err
	}

	u := newUsage(policy)
	for i, ind := range individuals {
		c, ok := daily[ind.Accommodation]
		if !ok {
			return nil, fmt.Errorf("individual %d: %w: %q", i, ErrUnknownCategory, ind.Accommodation)
		}
		u.ByCategory[ind.Accommodation] = u.ByCategory[ind.Accommodation].add(c)
	}
	return u, nil
}

// AggregateCounts is Aggregate over per-category counts.
func AggregateCounts(counts population.Counts, t Table, policy Policy) (*Usage, error) {
	daily, err := Daily(t, policy)
	if err != nil {
		return nil, err
	}

	u := newUsage(policy)
	for cat, n := range counts {
		if n == 0 {
			continue
		}
		c, ok := daily[cat]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
		}
		u.ByCategory[cat] = c.scale(float64(n))
	}
	return u, nil
}
