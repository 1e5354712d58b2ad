package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sppg/internal/enrollment/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

type EnrollmentStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context

	tenantID  id.TenantID
	programID id.ProgramID
}

func (s *EnrollmentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.tenantID = id.TenantID(uuid.New())
	s.programID = id.NewProgramID()
}

func TestEnrollmentStoreSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentStoreSuite))
}

func (s *EnrollmentStoreSuite) newEnrollment() *models.Enrollment {
	monthly := int64(10_000_000)
	return &models.Enrollment{
		ID:                  id.NewEnrollmentID(),
		TenantID:            s.tenantID,
		ProgramID:           s.programID,
		OrganizationID:      id.OrganizationID(uuid.New()),
		TargetGroup:         id.TargetGroupSchoolChildren,
		TargetBeneficiaries: 100,
		StartDate:           time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		MonthlyBudget:       &monthly,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

func (s *EnrollmentStoreSuite) TestCreateAndFind() {
	enr := s.newEnrollment()
	s.Require().NoError(s.store.Create(s.ctx, enr))

	found, err := s.store.FindByID(s.ctx, s.tenantID, enr.ID)
	s.Require().NoError(err)
	s.Equal(enr.OrganizationID, found.OrganizationID)

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, s.tenantID, id.NewEnrollmentID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("other tenant cannot see it", func() {
		_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()), enr.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *EnrollmentStoreSuite) TestOneEnrollmentPerProgramAndOrganization() {
	first := s.newEnrollment()
	s.Require().NoError(s.store.Create(s.ctx, first))

	duplicate := s.newEnrollment()
	duplicate.OrganizationID = first.OrganizationID
	err := s.store.Create(s.ctx, duplicate)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.Run("same organization may enroll in another program", func() {
		other := s.newEnrollment()
		other.OrganizationID = first.OrganizationID
		other.ProgramID = id.NewProgramID()
		s.Require().NoError(s.store.Create(s.ctx, other))
	})
}

func (s *EnrollmentStoreSuite) TestUpdate() {
	enr := s.newEnrollment()
	s.Require().NoError(s.store.Create(s.ctx, enr))

	enr.TargetBeneficiaries = 120
	s.Require().NoError(s.store.Update(s.ctx, enr))

	found, err := s.store.FindByID(s.ctx, s.tenantID, enr.ID)
	s.Require().NoError(err)
	s.Equal(120, found.TargetBeneficiaries)

	s.Run("updating a missing enrollment is not found", func() {
		ghost := s.newEnrollment()
		err := s.store.Update(s.ctx, ghost)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *EnrollmentStoreSuite) TestStoredCopyIsIsolated() {
	enr := s.newEnrollment()
	s.Require().NoError(s.store.Create(s.ctx, enr))

	enr.TargetBeneficiaries = 999
	found, err := s.store.FindByID(s.ctx, s.tenantID, enr.ID)
	s.Require().NoError(err)
	s.Equal(100, found.TargetBeneficiaries)
}

func (s *EnrollmentStoreSuite) TestAllocationsSkipUndeclaredBudgets() {
	withBudget := s.newEnrollment()
	s.Require().NoError(s.store.Create(s.ctx, withBudget))

	without := s.newEnrollment()
	without.MonthlyBudget = nil
	s.Require().NoError(s.store.Create(s.ctx, without))

	allocations, err := s.store.GetEnrollmentAllocations(s.ctx, s.tenantID, s.programID)
	s.Require().NoError(err)
	s.Equal([]int64{10_000_000}, allocations)
}

func (s *EnrollmentStoreSuite) TestListByProgram() {
	s.Require().NoError(s.store.Create(s.ctx, s.newEnrollment()))
	s.Require().NoError(s.store.Create(s.ctx, s.newEnrollment()))

	other := s.newEnrollment()
	other.ProgramID = id.NewProgramID()
	s.Require().NoError(s.store.Create(s.ctx, other))

	listed, err := s.store.ListByProgram(s.ctx, s.tenantID, s.programID)
	s.Require().NoError(err)
	s.Len(listed, 2)
}
