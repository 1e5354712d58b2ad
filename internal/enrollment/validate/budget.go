package validate

import (
	programmodels "sppg/internal/program/models"
	dErrors "sppg/pkg/domain-errors"
	"sppg/pkg/money"
)

// ExpectedMonthlyBudget computes the formula-derived monthly budget for an
// enrollment under the given program:
//
//	budgetPerMeal × targetBeneficiaries × mealsPerDay × feedingDays × weeksPerMonth
//
// with policy defaults filling in an absent feeding configuration. Whole
// Rupiah; the product is exact in int64 for any realistic inputs.
func ExpectedMonthlyBudget(p Policy, program *programmodels.Program, targetBeneficiaries int, mealsPerDay, feedingDays *int) int64 {
	meals := int64(p.mealsPerDay(mealsPerDay))
	days := int64(p.feedingDays(feedingDays))
	return program.BudgetPerMeal * int64(targetBeneficiaries) * meals * days * int64(p.WeeksPerMonth)
}

// CheckBudgetTolerance enforces that a declared monthly allocation is
// within the policy tolerance of the formula-derived expectation. A nil
// declaration passes trivially: the allocation is optional.
//
// The error message states the declared and expected amounts and every
// formula input, in Rupiah formatting, so it can surface to the user
// unchanged.
func CheckBudgetTolerance(p Policy, program *programmodels.Program, targetBeneficiaries int, mealsPerDay, feedingDays *int, declared *int64) error {
	if declared == nil {
		return nil
	}

	expected := ExpectedMonthlyBudget(p, program, targetBeneficiaries, mealsPerDay, feedingDays)
	tolerance := int64(float64(expected) * p.BudgetTolerance)

	diff := *declared - expected
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return dErrors.Newf(dErrors.CodeBudgetTolerance,
			"declared monthly budget %s deviates more than %.0f%% from expected %s (budget per meal %s × %d beneficiaries × %d meals/day × %d feeding days/week × %d weeks)",
			money.FormatIDR(*declared),
			p.BudgetTolerance*100,
			money.FormatIDR(expected),
			money.FormatIDR(program.BudgetPerMeal),
			targetBeneficiaries,
			p.mealsPerDay(mealsPerDay),
			p.feedingDays(feedingDays),
			p.WeeksPerMonth)
	}
	return nil
}
