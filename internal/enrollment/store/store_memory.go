// Package store persists enrollments. The Postgres store is the
// production backend; the in-memory store mirrors its constraints for
// unit tests and single-node dev runs.
package store

import (
	"context"
	"sync"

	"sppg/internal/enrollment/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

type memoryKey struct {
	tenantID     id.TenantID
	enrollmentID id.EnrollmentID
}

// InMemoryStore keeps enrollments in tenant-scoped maps and enforces the
// same one-enrollment-per-(program, organization) constraint as the
// Postgres unique index.
type InMemoryStore struct {
	mu          sync.RWMutex
	enrollments map[memoryKey]*models.Enrollment
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{enrollments: make(map[memoryKey]*models.Enrollment)}
}

func (s *InMemoryStore) Create(_ context.Context, enr *models.Enrollment) error {
	if enr == nil {
		return dErrors.New(dErrors.CodeInternal, "enrollment is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{tenantID: enr.TenantID, enrollmentID: enr.ID}
	if _, exists := s.enrollments[key]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "enrollment %s already exists", enr.ID)
	}
	for _, existing := range s.enrollments {
		if existing.TenantID == enr.TenantID &&
			existing.ProgramID == enr.ProgramID &&
			existing.OrganizationID == enr.OrganizationID {
			return dErrors.Newf(dErrors.CodeConflict,
				"organization %s is already enrolled in program %s", enr.OrganizationID, enr.ProgramID)
		}
	}
	cp := *enr
	s.enrollments[key] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, enr *models.Enrollment) error {
	if enr == nil {
		return dErrors.New(dErrors.CodeInternal, "enrollment is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{tenantID: enr.TenantID, enrollmentID: enr.ID}
	if _, exists := s.enrollments[key]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "enrollment %s not found", enr.ID)
	}
	cp := *enr
	s.enrollments[key] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, tenantID id.TenantID, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enr, exists := s.enrollments[memoryKey{tenantID: tenantID, enrollmentID: enrollmentID}]
	if !exists {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "enrollment %s not found", enrollmentID)
	}
	cp := *enr
	return &cp, nil
}

func (s *InMemoryStore) ListByProgram(_ context.Context, tenantID id.TenantID, programID id.ProgramID) ([]*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Enrollment
	for _, enr := range s.enrollments {
		if enr.TenantID == tenantID && enr.ProgramID == programID {
			cp := *enr
			out = append(out, &cp)
		}
	}
	return out, nil
}

// GetEnrollmentAllocations implements ports.AllocationReader. Enrollments
// without a declared monthly budget contribute nothing.
func (s *InMemoryStore) GetEnrollmentAllocations(_ context.Context, tenantID id.TenantID, programID id.ProgramID) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []int64
	for _, enr := range s.enrollments {
		if enr.TenantID == tenantID && enr.ProgramID == programID && enr.MonthlyBudget != nil {
			out = append(out, *enr.MonthlyBudget)
		}
	}
	return out, nil
}
