package resources

import "github.com/ChicagoDave/popsim/pkg/population"

// DaysPerYear converts annual heating and cooling rates to daily ones.
const DaysPerYear = 365.0

// Built-in table names.
const (
	TableEuropean = "european"
	TableBaseline = "baseline"
)

// European per-category needs. Water is litres per person per day,
// electricity kWh per person per day, heating and cooling MJ per m² per
// year, land m² per person. Occupancy is persons per dwelling.
var europeanTable = Table{
	population.LuxuryApartment: {
		Coefficients: Coefficients{Water: 300, Electricity: 20, Heating: 75, Cooling: 37.5, Land: 65},
		Occupancy:    1.5,
	},
	population.House: {
		Coefficients: Coefficients{Water: 250, Electricity: 15, Heating: 70, Cooling: 35, Land: 55},
		Occupancy:    3,
	},
	population.StandardApartment: {
		Coefficients: Coefficients{Water: 200, Electricity: 10, Heating: 65, Cooling: 32.5, Land: 46},
		Occupancy:    2,
	},
	population.SharedHousing: {
		Coefficients: Coefficients{Water: 150, Electricity: 7, Heating: 60, Cooling: 30, Land: 37},
		Occupancy:    4,
	},
	population.PublicHousing: {
		Coefficients: Coefficients{Water: 100, Electricity: 5, Heating: 55, Cooling: 27.5, Land: 28},
		Occupancy:    4,
	},
	population.Undefined: {Occupancy: 1},
}

// Baseline per-person daily needs. Heating and cooling are MJ per person
// per day and are summed without conversion.
var baselineTable = Table{
	population.LuxuryApartment:   {Coefficients: Coefficients{Water: 300, Electricity: 20, Heating: 30, Cooling: 15, Land: 65}},
	population.House:             {Coefficients: Coefficients{Water: 250, Electricity: 15, Heating: 25, Cooling: 12.5, Land: 55}},
	population.StandardApartment: {Coefficients: Coefficients{Water: 200, Electricity: 10, Heating: 20, Cooling: 10, Land: 46}},
	population.SharedHousing:     {Coefficients: Coefficients{Water: 150, Electricity: 7, Heating: 15, Cooling: 7.5, Land: 37}},
	population.PublicHousing:     {Coefficients: Coefficients{Water: 100, Electricity: 5, Heating: 12, Cooling: 6, Land: 28}},
	population.Undefined:         {},
}

var builtinTables = map[string]struct {
	table  Table
	policy Policy
}{
	TableEuropean: {europeanTable, PolicyAnnualToDaily},
	TableBaseline: {baselineTable, PolicyDirectDaily},
}
