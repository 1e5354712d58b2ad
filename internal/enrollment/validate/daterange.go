package validate

import (
	"time"

	programmodels "sppg/internal/program/models"
	dErrors "sppg/pkg/domain-errors"
)

// CheckDateRange enforces that the enrollment's feeding window sits inside
// the program's window:
//
//   - enrollment start must not precede program start (inclusive boundary:
//     starting on the program's first day is valid)
//   - enrollment end, when both it and the program end exist, must not
//     exceed the program end
//   - enrollment end, when present, must be strictly after the enrollment
//     start
//
// Pure function over the already-fetched program snapshot.
func CheckDateRange(program *programmodels.Program, start time.Time, end *time.Time) error {
	if start.Before(program.StartDate) {
		return dErrors.Newf(dErrors.CodeDateRange,
			"enrollment start date %s is before program start date %s",
			start.Format(time.DateOnly), program.StartDate.Format(time.DateOnly))
	}

	if program.EndDate != nil && end != nil && end.After(*program.EndDate) {
		return dErrors.Newf(dErrors.CodeDateRange,
			"enrollment end date %s is after program end date %s",
			end.Format(time.DateOnly), program.EndDate.Format(time.DateOnly))
	}

	if end != nil && !end.After(start) {
		return dErrors.Newf(dErrors.CodeDateRange,
			"enrollment end date %s must be after enrollment start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	return nil
}
