// Package store persists programs. The Postgres store is the production
// backend; the in-memory store serves unit tests and single-node dev runs.
package store

import (
	"context"
	"sync"

	"sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

type memoryKey struct {
	tenantID  id.TenantID
	programID id.ProgramID
}

// InMemoryStore keeps programs in a tenant-scoped map.
type InMemoryStore struct {
	mu       sync.RWMutex
	programs map[memoryKey]*models.Program
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{programs: make(map[memoryKey]*models.Program)}
}

func (s *InMemoryStore) Create(_ context.Context, program *models.Program) error {
	if program == nil {
		return dErrors.New(dErrors.CodeInternal, "program is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{tenantID: program.TenantID, programID: program.ID}
	if _, exists := s.programs[key]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "program %s already exists", program.ID)
	}
	cp := *program
	s.programs[key] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, program *models.Program) error {
	if program == nil {
		return dErrors.New(dErrors.CodeInternal, "program is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{tenantID: program.TenantID, programID: program.ID}
	if _, exists := s.programs[key]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "program %s not found", program.ID)
	}
	cp := *program
	s.programs[key] = &cp
	return nil
}

// GetProgram implements ports.ProgramReader.
func (s *InMemoryStore) GetProgram(_ context.Context, tenantID id.TenantID, programID id.ProgramID) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	program, exists := s.programs[memoryKey{tenantID: tenantID, programID: programID}]
	if !exists {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "program %s not found", programID)
	}
	cp := *program
	return &cp, nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Program
	for key, program := range s.programs {
		if key.tenantID == tenantID {
			cp := *program
			out = append(out, &cp)
		}
	}
	return out, nil
}
