// Package models defines the Enrollment value object and the
// target-group-specific demographic payload variants.
package models

import (
	"time"

	id "sppg/pkg/domain"
)

// AgeBandCounts is the optional age breakdown of an enrollment's
// beneficiaries. Absent bands are zero. If any band is non-zero the sum
// must equal the declared target-beneficiary count; the consistency
// checker enforces that.
type AgeBandCounts struct {
	Age0To2    int `json:"age_0_2"`
	Age3To5    int `json:"age_3_5"`
	Age6To12   int `json:"age_6_12"`
	Age13To15  int `json:"age_13_15"`
	Age16To18  int `json:"age_16_18"`
	AgeAbove18 int `json:"age_above_18"`
}

// Sum totals all age bands.
func (a AgeBandCounts) Sum() int {
	return a.Age0To2 + a.Age3To5 + a.Age6To12 + a.Age13To15 + a.Age16To18 + a.AgeAbove18
}

// GenderCounts is the optional gender breakdown, with the same
// sum-must-match rule as AgeBandCounts.
type GenderCounts struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Sum totals both genders.
func (g GenderCounts) Sum() int {
	return g.Male + g.Female
}

// Enrollment binds one beneficiary organization into one program for a
// specific target group. It is validated as a whole before every persist;
// the validation pipeline owns the cross-field and cross-entity rules, so
// this struct carries data, not checks.
type Enrollment struct {
	ID             id.EnrollmentID   `json:"id"`
	TenantID       id.TenantID       `json:"tenant_id"`
	ProgramID      id.ProgramID      `json:"program_id"`
	OrganizationID id.OrganizationID `json:"organization_id"`

	TargetGroup         id.TargetGroup `json:"target_group"`
	TargetBeneficiaries int            `json:"target_beneficiaries"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	AgeBands AgeBandCounts `json:"age_bands"`
	Genders  GenderCounts  `json:"genders"`

	// Feeding configuration; nil means "use program defaults".
	MealsPerDay        *int `json:"meals_per_day,omitempty"`
	FeedingDaysPerWeek *int `json:"feeding_days_per_week,omitempty"`

	// MonthlyBudget is the manually declared monthly allocation in whole
	// Rupiah; nil means no declaration (no tolerance check applies).
	MonthlyBudget *int64 `json:"monthly_budget,omitempty"`

	// TargetGroupData is the parsed demographic payload for TargetGroup;
	// nil when the organization declared none.
	TargetGroupData TargetGroupData `json:"target_group_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
