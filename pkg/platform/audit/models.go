// Package audit defines the enrollment audit trail: what happened to which
// program/enrollment, under which tenant, and why a validation rejected.
package audit

import (
	"context"
	"time"

	id "sppg/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	TenantID     id.TenantID
	UserID       id.UserID
	ProgramID    id.ProgramID
	EnrollmentID id.EnrollmentID
	Action       string
	// TargetGroup is set for enrollment events.
	TargetGroup string
	// Reason carries the literal validation message for rejection events.
	Reason string
	// FailureCode is the domain-error code for rejection events.
	FailureCode string
	RequestID   string
	ClientIP    string
	UserAgent   string
}

// AuditEvent names the actions the platform records.
type AuditEvent string

const (
	// Program events
	EventProgramCreated AuditEvent = "program_created"
	EventProgramUpdated AuditEvent = "program_updated"

	// Enrollment events
	EventEnrollmentValidated AuditEvent = "enrollment_validated"
	EventEnrollmentRejected  AuditEvent = "enrollment_rejected"
	EventEnrollmentCreated   AuditEvent = "enrollment_created"
	EventEnrollmentUpdated   AuditEvent = "enrollment_updated"

	// Budget events
	EventBudgetExceedanceChecked AuditEvent = "budget_exceedance_checked"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
