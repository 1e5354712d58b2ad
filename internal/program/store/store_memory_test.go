package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

type ProgramStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context

	tenantID id.TenantID
}

func (s *ProgramStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.tenantID = id.TenantID(uuid.New())
}

func TestProgramStoreSuite(t *testing.T) {
	suite.Run(t, new(ProgramStoreSuite))
}

func (s *ProgramStoreSuite) newProgram(name string) *models.Program {
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	return &models.Program{
		ID:                  id.NewProgramID(),
		TenantID:            s.tenantID,
		Name:                name,
		StartDate:           time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             &end,
		TotalBudget:         120_000_000,
		BudgetPerMeal:       5_000,
		AllowedTargetGroups: []id.TargetGroup{id.TargetGroupSchoolChildren},
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

func (s *ProgramStoreSuite) TestCreateAndGet() {
	program := s.newProgram("Makan Bergizi 2025")
	s.Require().NoError(s.store.Create(s.ctx, program))

	found, err := s.store.GetProgram(s.ctx, s.tenantID, program.ID)
	s.Require().NoError(err)
	s.Equal(program.Name, found.Name)

	s.Run("duplicate id conflicts", func() {
		err := s.store.Create(s.ctx, program)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.GetProgram(s.ctx, s.tenantID, id.NewProgramID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("other tenant cannot see it", func() {
		_, err := s.store.GetProgram(s.ctx, id.TenantID(uuid.New()), program.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ProgramStoreSuite) TestUpdate() {
	program := s.newProgram("Original")
	s.Require().NoError(s.store.Create(s.ctx, program))

	program.Name = "Revised"
	s.Require().NoError(s.store.Update(s.ctx, program))

	found, err := s.store.GetProgram(s.ctx, s.tenantID, program.ID)
	s.Require().NoError(err)
	s.Equal("Revised", found.Name)

	s.Run("updating a missing program is not found", func() {
		ghost := s.newProgram("Ghost")
		err := s.store.Update(s.ctx, ghost)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ProgramStoreSuite) TestStoredCopyIsIsolated() {
	program := s.newProgram("Immutable")
	s.Require().NoError(s.store.Create(s.ctx, program))

	program.Name = "Mutated"
	found, err := s.store.GetProgram(s.ctx, s.tenantID, program.ID)
	s.Require().NoError(err)
	s.Equal("Immutable", found.Name)
}

func (s *ProgramStoreSuite) TestListByTenant() {
	s.Require().NoError(s.store.Create(s.ctx, s.newProgram("One")))
	s.Require().NoError(s.store.Create(s.ctx, s.newProgram("Two")))

	other := s.newProgram("Other Tenant")
	other.TenantID = id.TenantID(uuid.New())
	s.Require().NoError(s.store.Create(s.ctx, other))

	listed, err := s.store.ListByTenant(s.ctx, s.tenantID)
	s.Require().NoError(err)
	s.Len(listed, 2)
}
