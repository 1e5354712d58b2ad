// Package domain holds shared domain primitives: typed identifiers and
// the target-group enumeration. IDs are distinct named UUID types so a
// ProgramID can never be passed where an EnrollmentID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "sppg/pkg/domain-errors"
)

type (
	// TenantID identifies an SPPG operator tenant.
	TenantID uuid.UUID
	// UserID identifies an authenticated platform user.
	UserID uuid.UUID
	// ProgramID identifies a nutrition program.
	ProgramID uuid.UUID
	// EnrollmentID identifies one organization's enrollment in a program.
	EnrollmentID uuid.UUID
	// OrganizationID identifies a beneficiary organization (school,
	// posyandu, community group).
	OrganizationID uuid.UUID
)

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid UUID: %s", kind, s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be the nil UUID", kind)
	}
	return u, nil
}

// ParseTenantID constructs a TenantID from external input.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s, "tenant")
	return TenantID(u), err
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

// ParseProgramID constructs a ProgramID from external input.
func ParseProgramID(s string) (ProgramID, error) {
	u, err := parseUUID(s, "program")
	return ProgramID(u), err
}

// ParseEnrollmentID constructs an EnrollmentID from external input.
func ParseEnrollmentID(s string) (EnrollmentID, error) {
	u, err := parseUUID(s, "enrollment")
	return EnrollmentID(u), err
}

// ParseOrganizationID constructs an OrganizationID from external input.
func ParseOrganizationID(s string) (OrganizationID, error) {
	u, err := parseUUID(s, "organization")
	return OrganizationID(u), err
}

// NewProgramID generates a fresh random ProgramID.
func NewProgramID() ProgramID { return ProgramID(uuid.New()) }

// NewEnrollmentID generates a fresh random EnrollmentID.
func NewEnrollmentID() EnrollmentID { return EnrollmentID(uuid.New()) }

func (id TenantID) String() string       { return uuid.UUID(id).String() }
func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ProgramID) String() string      { return uuid.UUID(id).String() }
func (id EnrollmentID) String() string   { return uuid.UUID(id).String() }
func (id OrganizationID) String() string { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProgramID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id EnrollmentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OrganizationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
