package validate

import (
	dErrors "sppg/pkg/domain-errors"
)

// CheckScalarBounds enforces the standalone numeric bounds on an
// enrollment: a positive beneficiary count and, when declared, a feeding
// configuration within the policy ranges.
//
// Pure function; no I/O.
func CheckScalarBounds(p Policy, targetBeneficiaries int, mealsPerDay, feedingDays *int) error {
	if targetBeneficiaries <= 0 {
		return dErrors.Newf(dErrors.CodeBounds,
			"target beneficiaries must be greater than zero (got %d)", targetBeneficiaries)
	}

	if mealsPerDay != nil && (*mealsPerDay < p.MinMealsPerDay || *mealsPerDay > p.MaxMealsPerDay) {
		return dErrors.Newf(dErrors.CodeBounds,
			"meals per day must be between %d and %d (got %d)",
			p.MinMealsPerDay, p.MaxMealsPerDay, *mealsPerDay)
	}

	if feedingDays != nil && (*feedingDays < p.MinFeedingDaysPerWeek || *feedingDays > p.MaxFeedingDaysPerWeek) {
		return dErrors.Newf(dErrors.CodeBounds,
			"feeding days per week must be between %d and %d (got %d)",
			p.MinFeedingDaysPerWeek, p.MaxFeedingDaysPerWeek, *feedingDays)
	}

	return nil
}
