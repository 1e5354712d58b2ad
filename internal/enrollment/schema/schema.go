// Package schema maps each target group to the structural validator for
// its free-form demographic payload. The registry is the only place that
// knows which JSON shape belongs to which group; everything downstream
// works with the parsed variant types.
package schema

import (
	"bytes"
	"encoding/json"
	"strings"

	"sppg/internal/enrollment/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// Registry parses and validates target-group payloads.
type Registry struct{}

// NewRegistry returns the registry for the six supported groups.
func NewRegistry() *Registry {
	return &Registry{}
}

// Parse validates raw against the schema selected by group.
//
// An unknown group fails with a schema error regardless of payload
// content. An absent payload (nil, empty, or JSON null) is valid and
// yields a nil result: the payload is optional at the enrollment level.
// Structural failures (unknown fields, wrong types, negative counts,
// out-of-range ages) are collected and reported in one message naming
// the group.
func (r *Registry) Parse(group id.TargetGroup, raw json.RawMessage) (models.TargetGroupData, error) {
	data, err := emptyDataFor(group)
	if err != nil {
		return nil, err
	}

	if isAbsent(raw) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		return nil, dErrors.Newf(dErrors.CodeSchema,
			"target-specific data invalid for group %s: %v", group, err)
	}

	if violations := data.Violations(); len(violations) > 0 {
		return nil, dErrors.Newf(dErrors.CodeSchema,
			"target-specific data invalid for group %s: %s", group, strings.Join(violations, "; "))
	}

	return data, nil
}

// emptyDataFor returns a zero payload value for the group. The switch is
// exhaustive over the supported groups; TestRegistryCoversAllGroups keeps
// it honest when a group is added.
func emptyDataFor(group id.TargetGroup) (models.TargetGroupData, error) {
	switch group {
	case id.TargetGroupPregnantWoman:
		return &models.PregnantWomanData{}, nil
	case id.TargetGroupBreastfeedingMother:
		return &models.BreastfeedingMotherData{}, nil
	case id.TargetGroupSchoolChildren:
		return &models.SchoolChildrenData{}, nil
	case id.TargetGroupToddler:
		return &models.ToddlerData{}, nil
	case id.TargetGroupTeenageGirl:
		return &models.TeenageGirlData{}, nil
	case id.TargetGroupElderly:
		return &models.ElderlyData{}, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeSchema, "unsupported target group: %s", group)
	}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
