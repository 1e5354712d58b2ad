// Package validate holds the enrollment validation core: pure checks over
// an enrollment and its parent program's snapshot, a pipeline that runs
// them in a fixed order, and the program-level budget exceedance query.
package validate

// Policy names the tunable constants of the validation rules. Defaults
// mirror operational policy; deployments override via configuration, not
// code changes.
type Policy struct {
	// BudgetTolerance is the accepted relative deviation between a
	// declared monthly allocation and the formula-derived expectation.
	BudgetTolerance float64

	// DefaultMealsPerDay applies when an enrollment declares no feeding
	// configuration.
	DefaultMealsPerDay int
	// DefaultFeedingDaysPerWeek applies when an enrollment declares no
	// feeding configuration.
	DefaultFeedingDaysPerWeek int

	// WeeksPerMonth converts the weekly feeding schedule into the
	// monthly budget expectation.
	WeeksPerMonth int
	// DaysPerMonth converts a program duration in days into months for
	// the exceedance projection.
	DaysPerMonth int

	// Feeding-configuration bounds.
	MinMealsPerDay        int
	MaxMealsPerDay        int
	MinFeedingDaysPerWeek int
	MaxFeedingDaysPerWeek int
}

// DefaultPolicy returns the operational defaults.
func DefaultPolicy() Policy {
	return Policy{
		BudgetTolerance:           0.10,
		DefaultMealsPerDay:        1,
		DefaultFeedingDaysPerWeek: 5,
		WeeksPerMonth:             4,
		DaysPerMonth:              30,
		MinMealsPerDay:            1,
		MaxMealsPerDay:            5,
		MinFeedingDaysPerWeek:     1,
		MaxFeedingDaysPerWeek:     7,
	}
}

// mealsPerDay resolves the effective meals/day for an enrollment.
func (p Policy) mealsPerDay(declared *int) int {
	if declared == nil {
		return p.DefaultMealsPerDay
	}
	return *declared
}

// feedingDays resolves the effective feeding days/week for an enrollment.
func (p Policy) feedingDays(declared *int) int {
	if declared == nil {
		return p.DefaultFeedingDaysPerWeek
	}
	return *declared
}
