package population

// AgeBracket is the sampled age range of an individual.
type AgeBracket string

const (
	AgeYoungAdult AgeBracket = "18-34"
	AgeMidAdult   AgeBracket = "35-50"
)

// AgeBrackets lists the age brackets in sampling order.
var AgeBrackets = []AgeBracket{AgeYoungAdult, AgeMidAdult}

type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

var Genders = []Gender{GenderFemale, GenderMale}

// Education is ordered from no schooling to postgraduate.
type Education string

const (
	EducationNone          Education = "No education"
	EducationPrimary       Education = "Primary"
	EducationSecondary     Education = "Secondary"
	EducationTechnical     Education = "Technical"
	EducationUndergraduate Education = "Undergraduate"
	EducationPostgraduate  Education = "Postgraduate"
)

// EducationLevels lists education levels in ascending order.
var EducationLevels = []Education{
	EducationNone,
	EducationPrimary,
	EducationSecondary,
	EducationTechnical,
	EducationUndergraduate,
	EducationPostgraduate,
}

// Tertiary reports whether the level is a university degree.
func (e Education) Tertiary() bool {
	return e == EducationUndergraduate || e == EducationPostgraduate
}

type Employment string

const (
	Employed   Employment = "Employed"
	Unemployed Employment = "Unemployed"
)

var EmploymentStatuses = []Employment{Employed, Unemployed}

type SocialStatus string

const (
	SocialSingle SocialStatus = "Single"
	SocialFamily SocialStatus = "Family"
)

var SocialStatuses = []SocialStatus{SocialSingle, SocialFamily}

// DefaultIncomeLevels are the discrete incomes of the reference model.
var DefaultIncomeLevels = []float64{100, 350, 1000}

// Category is the accommodation assigned to an individual.
// The zero value means the individual has not been classified.
type Category string

const (
	LuxuryApartment   Category = "LuxuryApartment"
	StandardApartment Category = "StandardApartment"
	SharedHousing     Category = "SharedHousing"
	House             Category = "House"
	PublicHousing     Category = "PublicHousing"
	Undefined         Category = "Undefined"
)

var categoryOrder = []Category{
	LuxuryApartment,
	StandardApartment,
	SharedHousing,
	House,
	PublicHousing,
	Undefined,
}

var categoryLabels = map[Category]string{
	LuxuryApartment:   "Luxury Apartment",
	StandardApartment: "Standard Apartment",
	SharedHousing:     "Shared Housing",
	House:             "House",
	PublicHousing:     "Public Housing",
	Undefined:         "Undefined",
}

// Categories returns every accommodation category in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name used in charts and reports.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Attributes holds the sampled properties of one individual.
type Attributes struct {
	Age             AgeBracket   `json:"age"`
	Gender          Gender       `json:"gender"`
	Education       Education    `json:"education"`
	Employment      Employment   `json:"employment"`
	Income          float64      `json:"income"`
	SocialStatus    SocialStatus `json:"social_status"`
	RelativesAbroad bool         `json:"relatives_abroad"`
}

// Individual is a classified member of a synthesized population.
type Individual struct {
	Attributes
	Accommodation Category `json:"accommodation"`
}

// NewIndividual classifies the attributes once and returns the resulting individual.
func NewIndividual(a Attributes) Individual {
	return Individual{Attributes: a, Accommodation: Classify(a)}
}

// Counts maps each category to the number of individuals assigned to it.
type Counts map[Category]int

// NewCounts returns a tally with every category present at zero.
func NewCounts() Counts {
	c := make(Counts, len(categoryOrder))
	for _, cat := range categoryOrder {
		c[cat] = 0
	}
	return c
}

// Total returns the number of individuals across all categories.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
