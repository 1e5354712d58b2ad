package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sppg/internal/program/store"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/platform/audit/publisher"
	auditmemory "sppg/pkg/platform/audit/store/memory"
	"sppg/pkg/requestcontext"
)

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) Invalidate(context.Context, id.TenantID, id.ProgramID) error {
	r.calls++
	return nil
}

type ProgramServiceSuite struct {
	suite.Suite

	tenantID    id.TenantID
	store       *store.InMemoryStore
	auditStore  *auditmemory.InMemoryStore
	invalidator *recordingInvalidator
	service     *Service
}

func TestProgramServiceSuite(t *testing.T) {
	suite.Run(t, new(ProgramServiceSuite))
}

func (s *ProgramServiceSuite) SetupTest() {
	s.tenantID = id.TenantID(uuid.New())
	s.store = store.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.invalidator = &recordingInvalidator{}

	svc, err := New(s.store,
		WithCacheInvalidator(s.invalidator),
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)))
	s.Require().NoError(err)
	s.service = svc
}

func (s *ProgramServiceSuite) ctx() context.Context {
	return requestcontext.WithTenantID(context.Background(), s.tenantID)
}

func (s *ProgramServiceSuite) validInput() Input {
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	return Input{
		Name:          "Makan Bergizi 2025",
		StartDate:     time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       &end,
		TotalBudget:   120_000_000,
		BudgetPerMeal: 5_000,
		AllowedTargetGroups: []id.TargetGroup{
			id.TargetGroupSchoolChildren,
			id.TargetGroupToddler,
		},
	}
}

func (s *ProgramServiceSuite) TestCreateAndGet() {
	program, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)
	s.False(program.ID.IsNil())

	got, err := s.service.Get(s.ctx(), program.ID)
	s.Require().NoError(err)
	s.Equal(program.Name, got.Name)
	s.Equal(program.AllowedTargetGroups, got.AllowedTargetGroups)

	events, err := s.auditStore.ListByTenant(context.Background(), s.tenantID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventProgramCreated), events[0].Action)
}

func (s *ProgramServiceSuite) TestCreateRejectsInvalidInput() {
	input := s.validInput()
	input.TotalBudget = 0

	_, err := s.service.Create(s.ctx(), input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ProgramServiceSuite) TestUpdateInvalidatesCache() {
	program, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	input := s.validInput()
	input.Name = "Makan Bergizi 2025 (revised)"
	input.AllowedTargetGroups = append(input.AllowedTargetGroups, id.TargetGroupElderly)

	updated, err := s.service.Update(s.ctx(), program.ID, input)
	s.Require().NoError(err)
	s.Equal(input.Name, updated.Name)
	s.Equal(program.CreatedAt, updated.CreatedAt)
	s.Equal(1, s.invalidator.calls)
}

func (s *ProgramServiceSuite) TestUpdateUnknownProgramNotFound() {
	_, err := s.service.Update(s.ctx(), id.NewProgramID(), s.validInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Zero(s.invalidator.calls)
}

func (s *ProgramServiceSuite) TestListScopedToTenant() {
	_, err := s.service.Create(s.ctx(), s.validInput())
	s.Require().NoError(err)

	mine, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.Len(mine, 1)

	otherCtx := requestcontext.WithTenantID(context.Background(), id.TenantID(uuid.New()))
	theirs, err := s.service.List(otherCtx)
	s.Require().NoError(err)
	s.Empty(theirs)
}
