package analytics

import (
	"fmt"

	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/validation"
)

// undefinedWarnShare is the share of unclassified individuals above which a
// run is flagged.
const undefinedWarnShare = 0.25

// validateAnalytical runs checks on a completed run.
func validateAnalytical(res *Result) *validation.Report {
	report := validation.NewReport()
	validateUndefinedShare(res, report)
	validateEmptyCategories(res, report)
	return report
}

func validateUndefinedShare(res *Result, report *validation.Report) {
	undefined := res.Counts[population.Undefined]
	if undefined == 0 || res.Population == 0 {
		return
	}

	share := float64(undefined) / float64(res.Population)
	result := validation.Result{
		Level:       validation.LevelAnalytical,
		Message:     fmt.Sprintf("%d of %d individuals (%.1f%%) matched no accommodation rule and use no resources", undefined, res.Population, share*100),
		SpecPath:    "distributions.income",
		ActualValue: undefined,
	}
	if share > undefinedWarnShare {
		result.Expected = fmt.Sprintf("<= %.0f%% undefined", undefinedWarnShare*100)
		result.Suggestions = []string{
			"Incomes above 250 need a university degree or a family to be housed",
			"Shift income or education weights toward housed profiles",
		}
		report.AddWarning(result)
		return
	}
	report.AddInfo(result)
}

func validateEmptyCategories(res *Result, report *validation.Report) {
	if res.Population == 0 {
		return
	}
	for _, cat := range population.Categories() {
		if cat == population.Undefined || res.Counts[cat] > 0 {
			continue
		}
		report.AddInfo(validation.Result{
			Level:    validation.LevelAnalytical,
			Message:  fmt.Sprintf("no individuals were assigned to %s", cat.Label()),
			SpecPath: "counts." + string(cat),
		})
	}
}
