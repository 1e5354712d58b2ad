package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sppg/internal/enrollment/models"
	enrollmentstore "sppg/internal/enrollment/store"
	"sppg/internal/enrollment/validate"
	programmodels "sppg/internal/program/models"
	programstore "sppg/internal/program/store"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/platform/audit/publisher"
	auditmemory "sppg/pkg/platform/audit/store/memory"
	"sppg/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	tenantID  id.TenantID
	programID id.ProgramID

	programs    *programstore.InMemoryStore
	enrollments *enrollmentstore.InMemoryStore
	auditStore  *auditmemory.InMemoryStore
	service     *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.tenantID = id.TenantID(uuid.New())
	s.programs = programstore.NewInMemory()
	s.enrollments = enrollmentstore.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 360)
	program := &programmodels.Program{
		ID:            id.NewProgramID(),
		TenantID:      s.tenantID,
		Name:          "Makan Bergizi 2025",
		StartDate:     start,
		EndDate:       &end,
		TotalBudget:   120_000_000,
		BudgetPerMeal: 5_000,
		AllowedTargetGroups: []id.TargetGroup{
			id.TargetGroupSchoolChildren,
			id.TargetGroupToddler,
		},
	}
	s.Require().NoError(s.programs.Create(context.Background(), program))
	s.programID = program.ID

	pipeline, err := validate.NewPipeline(validate.DefaultPolicy(), s.programs)
	s.Require().NoError(err)
	exceedance, err := validate.NewExceedanceChecker(validate.DefaultPolicy(), s.programs, s.enrollments)
	s.Require().NoError(err)

	svc, err := New(s.enrollments, pipeline, exceedance,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)))
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTenantID(context.Background(), s.tenantID)
}

func (s *ServiceSuite) validInput() Input {
	monthly := int64(10_000_000)
	return Input{
		ProgramID:           s.programID,
		OrganizationID:      id.OrganizationID(uuid.New()),
		TargetGroup:         id.TargetGroupSchoolChildren,
		TargetBeneficiaries: 100,
		StartDate:           time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		AgeBands:            models.AgeBandCounts{Age6To12: 60, Age13To15: 40},
		Genders:             models.GenderCounts{Male: 52, Female: 48},
		MonthlyBudget:       &monthly,
		TargetGroupData:     json.RawMessage(`{"sd_count": 60, "smp_count": 40}`),
	}
}

func (s *ServiceSuite) auditActions() []string {
	events, err := s.auditStore.ListByTenant(context.Background(), s.tenantID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

func (s *ServiceSuite) TestCreatePersistsAndAudits() {
	enr, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	s.False(enr.ID.IsNil())
	s.Equal(s.tenantID, enr.TenantID)
	s.Require().NotNil(enr.TargetGroupData)
	s.Equal(id.TargetGroupSchoolChildren, enr.TargetGroupData.Group())

	stored, err := s.enrollments.FindByID(s.ctx(), s.tenantID, enr.ID)
	s.Require().NoError(err)
	s.Equal(enr.ID, stored.ID)

	s.Equal([]string{
		string(audit.EventEnrollmentValidated),
		string(audit.EventEnrollmentCreated),
	}, s.auditActions())
}

func (s *ServiceSuite) TestCreateRejectionLeavesNoRecord() {
	input := s.validInput()
	bad := int64(12_000_000)
	input.MonthlyBudget = &bad

	_, err := s.service.Create(s.ctx(), input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeBudgetTolerance))

	listed, err := s.enrollments.ListByProgram(s.ctx(), s.tenantID, s.programID)
	s.Require().NoError(err)
	s.Empty(listed)

	events, err := s.auditStore.ListByTenant(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventEnrollmentRejected), events[0].Action)
	s.Equal(string(dErrors.CodeBudgetTolerance), events[0].FailureCode)
	s.NotEmpty(events[0].Reason)
}

func (s *ServiceSuite) TestCreateDuplicateOrganizationConflicts() {
	input := s.validInput()
	_, err := s.service.Create(s.ctx(), input)
	s.Require().NoError(err)

	_, err = s.service.Create(s.ctx(), input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUpdateRevalidates() {
	enr, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	input := s.validInput()
	input.OrganizationID = enr.OrganizationID
	input.TargetGroup = id.TargetGroupElderly
	input.TargetGroupData = nil

	_, err = s.service.Update(s.ctx(), enr.ID, input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeEligibility))

	// The stored row is untouched by the rejected update.
	stored, err := s.service.Get(s.ctx(), enr.ID)
	s.Require().NoError(err)
	s.Equal(id.TargetGroupSchoolChildren, stored.TargetGroup)
}

func (s *ServiceSuite) TestUpdateAppliesNewDeclarations() {
	enr, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	input := s.validInput()
	// Absent organization keeps the existing binding.
	input.OrganizationID = id.OrganizationID{}
	input.TargetBeneficiaries = 120
	input.AgeBands = models.AgeBandCounts{Age6To12: 70, Age13To15: 50}
	input.Genders = models.GenderCounts{}
	monthly := int64(12_000_000)
	input.MonthlyBudget = &monthly
	input.TargetGroupData = json.RawMessage(`{"sd_count": 70, "smp_count": 50}`)

	updated, err := s.service.Update(s.ctx(), enr.ID, input)
	s.Require().NoError(err)
	s.Equal(120, updated.TargetBeneficiaries)
	s.Equal(enr.ProgramID, updated.ProgramID)
	s.Equal(enr.OrganizationID, updated.OrganizationID)
}

func (s *ServiceSuite) TestUpdateOrganizationMismatchRejected() {
	enr, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	input := s.validInput()
	input.OrganizationID = id.OrganizationID(uuid.New())

	_, err = s.service.Update(s.ctx(), enr.ID, input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	stored, err := s.service.Get(s.ctx(), enr.ID)
	s.Require().NoError(err)
	s.Equal(enr.OrganizationID, stored.OrganizationID)
}

func (s *ServiceSuite) TestUpdateUnknownEnrollmentNotFound() {
	_, err := s.service.Update(s.ctx(), id.NewEnrollmentID(), s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListByProgramScopedToTenant() {
	_, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	listed, err := s.service.ListByProgram(otherCtx, s.programID)
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *ServiceSuite) TestCheckBudgetExceedance() {
	_, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	// 10,000,000 existing over 12 months already fills the budget.
	result, err := s.service.CheckBudgetExceedance(s.ctx(), s.programID, 1)
	s.Require().NoError(err)
	s.True(result.Exceeded)

	result, err = s.service.CheckBudgetExceedance(s.ctx(), s.programID, 0)
	s.Require().NoError(err)
	s.False(result.Exceeded)

	s.Contains(s.auditActions(), string(audit.EventBudgetExceedanceChecked))
}
