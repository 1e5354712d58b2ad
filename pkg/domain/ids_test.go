package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sppg/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseProgramID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseProgramID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEnrollmentID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseOrganizationID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, OrganizationID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces ID type safety.
func TestTypeDistinction(t *testing.T) {
	programID := ProgramID(uuid.New())
	enrollmentID := EnrollmentID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ ProgramID = enrollmentID   // compile error
	// var _ EnrollmentID = programID   // compile error

	assert.NotEqual(t, uuid.UUID(programID), uuid.UUID(enrollmentID))
}

func TestParseTargetGroup(t *testing.T) {
	t.Run("accepts supported groups", func(t *testing.T) {
		for _, g := range AllTargetGroups() {
			parsed, err := ParseTargetGroup(g.String())
			require.NoError(t, err)
			assert.Equal(t, g, parsed)
		}
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseTargetGroup("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects typo'd tag", func(t *testing.T) {
		_, err := ParseTargetGroup("school_childern")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestJoinTargetGroups(t *testing.T) {
	joined := JoinTargetGroups([]TargetGroup{TargetGroupToddler, TargetGroupElderly})
	assert.Equal(t, "toddler, elderly", joined)
}
