package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ChicagoDave/popsim/pkg/analytics"
	"github.com/ChicagoDave/popsim/pkg/population"
	"github.com/ChicagoDave/popsim/pkg/resources"
	"github.com/ChicagoDave/popsim/pkg/validation"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
			if e.SpecPath != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", e.SpecPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Fprintf(w, "    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", warn.Level, warn.Message)
			if warn.SpecPath != "" {
				fmt.Fprintf(w, "    -> %s = %v\n", warn.SpecPath, warn.ActualValue)
			}
			if warn.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", warn.Expected)
			}
			for _, s := range warn.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

type bar struct {
	label string
	value float64
}

// renderBarChart draws one horizontal bar per entry, scaled to the largest
// value and annotated with annotate(value).
func renderBarChart(title string, bars []bar, annotate func(float64) string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	labelWidth := 0
	maxVal := 0.0
	for _, br := range bars {
		labelWidth = max(labelWidth, len(br.label))
		maxVal = math.Max(maxVal, br.value)
	}

	for _, br := range bars {
		n := 0
		if maxVal > 0 {
			n = int(math.Round(br.value / maxVal * barWidth))
		}
		fmt.Fprintf(&b, "  %-*s %s%s %s\n",
			labelWidth, br.label,
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", barWidth-n),
			annotate(br.value))
	}
	return b.String()
}

func countLabel(v float64) string {
	return strconv.Itoa(int(v))
}

func categoryBars(values func(population.Category) float64) []bar {
	cats := population.Categories()
	bars := make([]bar, len(cats))
	for i, cat := range cats {
		bars[i] = bar{label: cat.Label(), value: values(cat)}
	}
	return bars
}

func printRunResult(w io.Writer, res *analytics.Result) {
	fmt.Fprintf(w, "Run %s  seed=%d  population=%d  table=%s  policy=%s\n\n",
		res.RunID, res.Seed, res.Population, res.Table, res.Policy)

	fmt.Fprintln(w, renderBarChart("Accommodation", categoryBars(func(c population.Category) float64 {
		return float64(res.Counts[c])
	}), countLabel))

	for _, r := range resources.Resources() {
		byCat := res.Resources[r]
		unit := r.Unit()
		title := fmt.Sprintf("%s (%s)", strings.ToUpper(string(r[:1]))+string(r[1:]), unit)
		fmt.Fprintln(w, renderBarChart(title, categoryBars(func(c population.Category) float64 {
			return byCat[c]
		}), func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		}))
	}

	usage := res.Usage()
	fmt.Fprintln(w, titleStyle.Render("Totals"))
	for _, r := range resources.Resources() {
		fmt.Fprintf(w, "  %-12s %14.2f %s\n", r, usage.Total(r), mutedStyle.Render(r.Unit()))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Rules"))
	for _, rc := range res.Rules {
		fmt.Fprintf(w, "  %d. %-26s %-20s %8d\n", rc.Rule, rc.Name, rc.Category.Label(), rc.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Dwellings"))
	fmt.Fprintf(w, "  %-20s %10s %10s %10s\n", "Category", "Residents", "Occupancy", "Units")
	for _, d := range res.Dwellings {
		if d.Category == population.Undefined {
			continue
		}
		fmt.Fprintf(w, "  %-20s %10d %10.1f %10d\n", d.Category.Label(), d.Residents, d.Occupancy, d.Units)
	}
}

func printResourceTables(w io.Writer) {
	for _, name := range resources.TableNames() {
		t, native, _ := resources.BuiltinTable(name)
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Table %s (native policy: %s)", name, native)))

		for _, policy := range []resources.Policy{resources.PolicyAnnualToDaily, resources.PolicyDirectDaily} {
			daily, err := resources.Daily(t, policy)
			if err != nil {
				fmt.Fprintf(w, "  %s: %s\n", policy, mutedStyle.Render(err.Error()))
				continue
			}
			fmt.Fprintf(w, "  %s, per person per day:\n", policy)
			fmt.Fprintf(w, "    %-20s", "Category")
			for _, r := range resources.Resources() {
				fmt.Fprintf(w, " %12s", r)
			}
			fmt.Fprintln(w)
			for _, cat := range population.Categories() {
				c := daily[cat]
				fmt.Fprintf(w, "    %-20s", cat.Label())
				for _, r := range resources.Resources() {
					fmt.Fprintf(w, " %12.2f", c.Get(r))
				}
				fmt.Fprintln(w)
			}
		}
		fmt.Fprintln(w)
	}
}
