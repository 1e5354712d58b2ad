package validate

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"sppg/internal/enrollment/ports"
	programmodels "sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	"sppg/pkg/requestcontext"
)

// ExceedanceResult reports whether one more enrollment's monthly
// allocation would push a program past its total budget, plus the
// projection inputs so callers can display them.
type ExceedanceResult struct {
	Exceeded             bool  `json:"exceeded"`
	Months               int   `json:"months"`
	ExistingMonthlyTotal int64 `json:"existing_monthly_total"`
	ProjectedTotal       int64 `json:"projected_total"`
	TotalBudget          int64 `json:"total_budget"`
}

// ExceedanceChecker answers the program-level budget question. It is a
// yes/no query: it never rejects anything itself, and two concurrent
// callers may both receive "not exceeded" for allocations that together
// exceed the budget. Callers needing a hard guarantee must serialize
// validate+persist at the storage layer.
type ExceedanceChecker struct {
	policy      Policy
	programs    ports.ProgramReader
	allocations ports.AllocationReader
}

// NewExceedanceChecker constructs the checker.
func NewExceedanceChecker(policy Policy, programs ports.ProgramReader, allocations ports.AllocationReader) (*ExceedanceChecker, error) {
	if programs == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "program reader is required")
	}
	if allocations == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "allocation reader is required")
	}
	return &ExceedanceChecker{policy: policy, programs: programs, allocations: allocations}, nil
}

// Check fetches the program and the existing allocations concurrently,
// then projects (existing + newAllocation) over the program's duration in
// months. Open-ended programs are measured up to the request time.
func (c *ExceedanceChecker) Check(ctx context.Context, tenantID id.TenantID, programID id.ProgramID, newAllocation int64) (*ExceedanceResult, error) {
	var (
		program     *programmodels.Program
		allocations []int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		program, err = c.programs.GetProgram(gctx, tenantID, programID)
		return err
	})
	g.Go(func() error {
		var err error
		allocations, err = c.allocations.GetEnrollmentAllocations(gctx, tenantID, programID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	end := requestcontext.Now(ctx)
	if program.EndDate != nil {
		end = *program.EndDate
	}
	months := c.monthsBetween(program.StartDate, end)

	var existing int64
	for _, a := range allocations {
		existing += a
	}

	projected := (existing + newAllocation) * int64(months)
	return &ExceedanceResult{
		Exceeded:             projected > program.TotalBudget,
		Months:               months,
		ExistingMonthlyTotal: existing,
		ProjectedTotal:       projected,
		TotalBudget:          program.TotalBudget,
	}, nil
}

// monthsBetween converts a duration to whole months, rounding up. A
// non-positive duration yields zero months.
func (c *ExceedanceChecker) monthsBetween(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(days / float64(c.policy.DaysPerMonth)))
}
