// Package ports declares the narrow external-read interfaces the
// enrollment validation core consumes. Implementations live in the
// program/enrollment stores (and the Redis program cache); tests supply
// in-memory fakes.
package ports

import (
	"context"

	programmodels "sppg/internal/program/models"
	id "sppg/pkg/domain"
	audit "sppg/pkg/platform/audit"
)

// ProgramReader fetches one program snapshot by ID, scoped to a tenant.
// A miss returns a CodeNotFound domain error.
type ProgramReader interface {
	GetProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) (*programmodels.Program, error)
}

// AllocationReader aggregates the declared monthly allocations of a
// program's existing enrollments. Enrollments without a declared
// allocation contribute nothing.
type AllocationReader interface {
	GetEnrollmentAllocations(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) ([]int64, error)
}

// AuditPublisher records domain events. Implementations must not fail the
// request path; callers log and continue on error.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
