package validate

import (
	"sppg/internal/enrollment/models"
	dErrors "sppg/pkg/domain-errors"
)

// CheckBreakdownConsistency enforces that declared age-band and gender
// breakdowns, when any of their fields are non-zero, sum exactly to the
// target-beneficiary count. A fully absent breakdown is valid: declaring
// zero detail is allowed. The two breakdowns are judged independently.
//
// Pure function; no I/O.
func CheckBreakdownConsistency(targetBeneficiaries int, ageBands models.AgeBandCounts, genders models.GenderCounts) error {
	if sum := ageBands.Sum(); sum > 0 && sum != targetBeneficiaries {
		return dErrors.Newf(dErrors.CodeConsistency,
			"age-band breakdown total mismatch: bands sum to %d but target beneficiaries is %d",
			sum, targetBeneficiaries)
	}

	if sum := genders.Sum(); sum > 0 && sum != targetBeneficiaries {
		return dErrors.Newf(dErrors.CodeConsistency,
			"gender breakdown total mismatch: genders sum to %d but target beneficiaries is %d",
			sum, targetBeneficiaries)
	}

	return nil
}
