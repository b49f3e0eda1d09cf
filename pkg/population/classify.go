package population

// Rule is one entry of the accommodation decision list.
type Rule struct {
	Name     string
	Category Category
	Match    func(a Attributes) bool
}

// rules is evaluated top to bottom and the first match wins. Later rules
// overlap earlier ones, so the order is part of the behavior.
var rules = []Rule{
	{
		Name:     "high income with a degree",
		Category: LuxuryApartment,
		Match: func(a Attributes) bool {
			return a.Income > 130 && a.Education.Tertiary()
		},
	},
	{
		Name:     "middle income",
		Category: StandardApartment,
		Match: func(a Attributes) bool {
			return a.Income >= 50 && a.Income <= 130
		},
	},
	{
		Name:     "low income single",
		Category: SharedHousing,
		Match: func(a Attributes) bool {
			return a.Income < 50 && a.SocialStatus == SocialSingle
		},
	},
	{
		Name:     "family above low income",
		Category: House,
		Match: func(a Attributes) bool {
			return a.SocialStatus == SocialFamily && a.Income >= 50
		},
	},
	{
		Name:     "low income family",
		Category: PublicHousing,
		Match: func(a Attributes) bool {
			return a.Income < 50 && a.SocialStatus == SocialFamily
		},
	},
	{
		Name:     "subsidy band",
		Category: PublicHousing,
		Match: func(a Attributes) bool {
			return a.Income >= 0 && a.Income <= 250
		},
	},
}

// FallbackRuleName names the implicit last rule that assigns Undefined.
const FallbackRuleName = "no rule matched"

// Rules returns a copy of the decision list in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// RuleName returns the name of the 1-based rule number n as reported by
// ClassifyRule, or "" when n is out of range.
func RuleName(n int) string {
	switch {
	case n >= 1 && n <= len(rules):
		return rules[n-1].Name
	case n == len(rules)+1:
		return FallbackRuleName
	}
	return ""
}

// ClassifyRule returns the assigned category and the 1-based number of the
// rule that produced it. The fallback to Undefined is reported as
// len(Rules())+1.
func ClassifyRule(a Attributes) (Category, int) {
	for i, r := range rules {
		if r.Match(a) {
			return r.Category, i + 1
		}
	}
	return Undefined, len(rules) + 1
}

// Classify maps attributes to exactly one accommodation category.
// Only income, education and social status are inspected.
func Classify(a Attributes) Category {
	c, _ := ClassifyRule(a)
	return c
}
