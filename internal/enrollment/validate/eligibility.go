package validate

import (
	programmodels "sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// CheckEligibility enforces that the enrollment's target group is in the
// program's allow-list. The error names the rejected group, the program,
// and the full allowed list so the message stands on its own.
//
// Pure function over the already-fetched program snapshot.
func CheckEligibility(program *programmodels.Program, group id.TargetGroup) error {
	if program.AllowsTargetGroup(group) {
		return nil
	}
	return dErrors.Newf(dErrors.CodeEligibility,
		"target group %s is not eligible for program %q (allowed: %s)",
		group, program.Name, id.JoinTargetGroups(program.AllowedTargetGroups))
}
