package domain

import (
	"strings"

	dErrors "sppg/pkg/domain-errors"
)

// TargetGroup is a beneficiary category served by a nutrition program.
// Invariant: the value must be one of the six supported groups.
//
// Usage: construct via ParseTargetGroup at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type TargetGroup string

// Supported target groups. The tags match the wire values used by the
// enrollment API and the demographic-payload discriminant.
const (
	TargetGroupPregnantWoman       TargetGroup = "pregnant_woman"
	TargetGroupBreastfeedingMother TargetGroup = "breastfeeding_mother"
	TargetGroupSchoolChildren      TargetGroup = "school_children"
	TargetGroupToddler             TargetGroup = "toddler"
	TargetGroupTeenageGirl         TargetGroup = "teenage_girl"
	TargetGroupElderly             TargetGroup = "elderly"
)

// validTargetGroups is the single source of truth for supported groups.
var validTargetGroups = map[TargetGroup]bool{
	TargetGroupPregnantWoman:       true,
	TargetGroupBreastfeedingMother: true,
	TargetGroupSchoolChildren:      true,
	TargetGroupToddler:             true,
	TargetGroupTeenageGirl:         true,
	TargetGroupElderly:             true,
}

// AllTargetGroups lists the supported groups in a stable order.
func AllTargetGroups() []TargetGroup {
	return []TargetGroup{
		TargetGroupPregnantWoman,
		TargetGroupBreastfeedingMother,
		TargetGroupSchoolChildren,
		TargetGroupToddler,
		TargetGroupTeenageGirl,
		TargetGroupElderly,
	}
}

// ParseTargetGroup constructs a TargetGroup from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseTargetGroup(s string) (TargetGroup, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "target group cannot be empty")
	}
	g := TargetGroup(s)
	if !g.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unsupported target group: %s", s)
	}
	return g, nil
}

// IsValid checks whether the group is one of the supported enum values.
func (g TargetGroup) IsValid() bool {
	return validTargetGroups[g]
}

// String returns the wire representation of the group.
func (g TargetGroup) String() string {
	return string(g)
}

// JoinTargetGroups renders a comma-joined human-readable list, used by
// eligibility error messages.
func JoinTargetGroups(groups []TargetGroup) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, string(g))
	}
	return strings.Join(parts, ", ")
}
