package validate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sppg/internal/enrollment/models"
	enrollmentstore "sppg/internal/enrollment/store"
	programmodels "sppg/internal/program/models"
	programstore "sppg/internal/program/store"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	"sppg/pkg/requestcontext"
)

type exceedanceFixture struct {
	tenantID    id.TenantID
	programID   id.ProgramID
	checker     *ExceedanceChecker
	enrollments *enrollmentstore.InMemoryStore
}

// newExceedanceFixture seeds a program running exactly 360 days (12
// months at 30 days/month) with a 120,000,000 Rupiah total budget, so the
// sustainable monthly total is exactly 10,000,000.
func newExceedanceFixture(t *testing.T) *exceedanceFixture {
	t.Helper()

	tenantID := id.TenantID(uuid.New())
	start := date(2025, time.January, 1)
	program := &programmodels.Program{
		ID:                  id.NewProgramID(),
		TenantID:            tenantID,
		Name:                "Makan Bergizi 2025",
		StartDate:           start,
		EndDate:             timePtr(start.AddDate(0, 0, 360)),
		TotalBudget:         120_000_000,
		BudgetPerMeal:       5_000,
		AllowedTargetGroups: id.AllTargetGroups(),
	}

	programs := programstore.NewInMemory()
	require.NoError(t, programs.Create(context.Background(), program))

	enrollments := enrollmentstore.NewInMemory()
	checker, err := NewExceedanceChecker(DefaultPolicy(), programs, enrollments)
	require.NoError(t, err)

	return &exceedanceFixture{
		tenantID:    tenantID,
		programID:   program.ID,
		checker:     checker,
		enrollments: enrollments,
	}
}

func (f *exceedanceFixture) addAllocation(t *testing.T, monthly int64) {
	t.Helper()
	err := f.enrollments.Create(context.Background(), &models.Enrollment{
		ID:                  id.NewEnrollmentID(),
		TenantID:            f.tenantID,
		ProgramID:           f.programID,
		OrganizationID:      id.OrganizationID(uuid.New()),
		TargetGroup:         id.TargetGroupSchoolChildren,
		TargetBeneficiaries: 100,
		StartDate:           date(2025, time.February, 1),
		MonthlyBudget:       &monthly,
	})
	require.NoError(t, err)
}

func TestExceedanceCheck(t *testing.T) {
	t.Run("within budget", func(t *testing.T) {
		f := newExceedanceFixture(t)
		f.addAllocation(t, 6_000_000)

		result, err := f.checker.Check(context.Background(), f.tenantID, f.programID, 4_000_000)
		require.NoError(t, err)
		assert.False(t, result.Exceeded)
		assert.Equal(t, 12, result.Months)
		assert.Equal(t, int64(6_000_000), result.ExistingMonthlyTotal)
		assert.Equal(t, int64(120_000_000), result.ProjectedTotal)
		assert.Equal(t, int64(120_000_000), result.TotalBudget)
	})

	t.Run("exactly at budget is not exceeded", func(t *testing.T) {
		f := newExceedanceFixture(t)

		result, err := f.checker.Check(context.Background(), f.tenantID, f.programID, 10_000_000)
		require.NoError(t, err)
		assert.False(t, result.Exceeded)
	})

	t.Run("one rupiah over the monthly cap exceeds", func(t *testing.T) {
		f := newExceedanceFixture(t)
		f.addAllocation(t, 6_000_000)

		result, err := f.checker.Check(context.Background(), f.tenantID, f.programID, 4_000_001)
		require.NoError(t, err)
		assert.True(t, result.Exceeded)
		assert.Equal(t, int64(120_000_012), result.ProjectedTotal)
	})

	t.Run("enrollments without declared budgets contribute nothing", func(t *testing.T) {
		f := newExceedanceFixture(t)
		err := f.enrollments.Create(context.Background(), &models.Enrollment{
			ID:                  id.NewEnrollmentID(),
			TenantID:            f.tenantID,
			ProgramID:           f.programID,
			OrganizationID:      id.OrganizationID(uuid.New()),
			TargetGroup:         id.TargetGroupToddler,
			TargetBeneficiaries: 50,
			StartDate:           date(2025, time.February, 1),
		})
		require.NoError(t, err)

		result, err := f.checker.Check(context.Background(), f.tenantID, f.programID, 10_000_000)
		require.NoError(t, err)
		assert.Zero(t, result.ExistingMonthlyTotal)
		assert.False(t, result.Exceeded)
	})

	t.Run("unknown program errors", func(t *testing.T) {
		f := newExceedanceFixture(t)

		_, err := f.checker.Check(context.Background(), f.tenantID, id.NewProgramID(), 1)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	// Raising the candidate allocation never flips the answer from
	// exceeded back to within budget.
	t.Run("monotonic in the candidate allocation", func(t *testing.T) {
		f := newExceedanceFixture(t)
		f.addAllocation(t, 9_000_000)

		exceededSeen := false
		for _, alloc := range []int64{0, 500_000, 1_000_000, 1_000_001, 2_000_000, 50_000_000} {
			result, err := f.checker.Check(context.Background(), f.tenantID, f.programID, alloc)
			require.NoError(t, err)
			if exceededSeen {
				assert.True(t, result.Exceeded, "allocation %d regressed to within budget", alloc)
			}
			exceededSeen = exceededSeen || result.Exceeded
		}
		assert.True(t, exceededSeen)
	})
}

func TestExceedanceOpenEndedProgram(t *testing.T) {
	tenantID := id.TenantID(uuid.New())
	program := &programmodels.Program{
		ID:                  id.NewProgramID(),
		TenantID:            tenantID,
		Name:                "Open-Ended Feeding",
		StartDate:           date(2025, time.January, 1),
		TotalBudget:         60_000_000,
		BudgetPerMeal:       5_000,
		AllowedTargetGroups: id.AllTargetGroups(),
	}
	programs := programstore.NewInMemory()
	require.NoError(t, programs.Create(context.Background(), program))

	checker, err := NewExceedanceChecker(DefaultPolicy(), programs, enrollmentstore.NewInMemory())
	require.NoError(t, err)

	// 150 days elapsed at request time: 5 months of runtime so far.
	ctx := requestcontext.WithTime(context.Background(), date(2025, time.May, 31))

	result, err := checker.Check(ctx, tenantID, program.ID, 12_000_000)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Months)
	assert.False(t, result.Exceeded)

	result, err = checker.Check(ctx, tenantID, program.ID, 12_000_001)
	require.NoError(t, err)
	assert.True(t, result.Exceeded)
}
