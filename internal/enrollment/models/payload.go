package models

import (
	"fmt"

	id "sppg/pkg/domain"
)

// TargetGroupData is the demographic payload variant. Exactly one concrete
// type exists per target group; the schema registry selects the arm from
// the enrollment's target group, so shape and discriminant can never
// disagree. Adding a group means adding an arm here and a case in the
// registry, which the compiler and the registry's exhaustiveness test
// both police.
type TargetGroupData interface {
	// Group identifies the arm.
	Group() id.TargetGroup
	// Violations lists every structural-constraint failure, one message
	// per field. An empty slice means the payload is valid.
	Violations() []string
}

// Field bounds shared by the arms. Mother ages are bounded to the
// realistic childbearing range.
const (
	MotherAgeMin = 15
	MotherAgeMax = 50
)

// nonNegative appends a violation when the optional field is present and
// negative.
func nonNegative(violations []string, field string, v *int) []string {
	if v != nil && *v < 0 {
		violations = append(violations, fmt.Sprintf("%s must not be negative (got %d)", field, *v))
	}
	return violations
}

// boundedAge appends a violation when the optional field is present and
// outside [MotherAgeMin, MotherAgeMax].
func boundedAge(violations []string, field string, v *int) []string {
	if v != nil && (*v < MotherAgeMin || *v > MotherAgeMax) {
		violations = append(violations, fmt.Sprintf("%s must be between %d and %d (got %d)", field, MotherAgeMin, MotherAgeMax, *v))
	}
	return violations
}

// PregnantWomanData breaks pregnant beneficiaries down by trimester.
type PregnantWomanData struct {
	FirstTrimester   *int `json:"first_trimester,omitempty"`
	SecondTrimester  *int `json:"second_trimester,omitempty"`
	ThirdTrimester   *int `json:"third_trimester,omitempty"`
	HighRiskCount    *int `json:"high_risk_count,omitempty"`
	AverageMotherAge *int `json:"average_mother_age,omitempty"`
}

func (d *PregnantWomanData) Group() id.TargetGroup { return id.TargetGroupPregnantWoman }

func (d *PregnantWomanData) Violations() []string {
	var v []string
	v = nonNegative(v, "first_trimester", d.FirstTrimester)
	v = nonNegative(v, "second_trimester", d.SecondTrimester)
	v = nonNegative(v, "third_trimester", d.ThirdTrimester)
	v = nonNegative(v, "high_risk_count", d.HighRiskCount)
	v = boundedAge(v, "average_mother_age", d.AverageMotherAge)
	return v
}

// BreastfeedingMotherData breaks mothers down by nursing-infant age.
type BreastfeedingMotherData struct {
	InfantsUnder6Months *int `json:"infants_under_6_months,omitempty"`
	Infants6To24Months  *int `json:"infants_6_24_months,omitempty"`
	AverageMotherAge    *int `json:"average_mother_age,omitempty"`
}

func (d *BreastfeedingMotherData) Group() id.TargetGroup { return id.TargetGroupBreastfeedingMother }

func (d *BreastfeedingMotherData) Violations() []string {
	var v []string
	v = nonNegative(v, "infants_under_6_months", d.InfantsUnder6Months)
	v = nonNegative(v, "infants_6_24_months", d.Infants6To24Months)
	v = boundedAge(v, "average_mother_age", d.AverageMotherAge)
	return v
}

// SchoolChildrenData breaks school children down by education level
// (Indonesian school system).
type SchoolChildrenData struct {
	PAUDCount         *int `json:"paud_count,omitempty"`
	TKCount           *int `json:"tk_count,omitempty"`
	SDCount           *int `json:"sd_count,omitempty"`
	SMPCount          *int `json:"smp_count,omitempty"`
	SMACount          *int `json:"sma_count,omitempty"`
	SpecialNeedsCount *int `json:"special_needs_count,omitempty"`
}

func (d *SchoolChildrenData) Group() id.TargetGroup { return id.TargetGroupSchoolChildren }

func (d *SchoolChildrenData) Violations() []string {
	var v []string
	v = nonNegative(v, "paud_count", d.PAUDCount)
	v = nonNegative(v, "tk_count", d.TKCount)
	v = nonNegative(v, "sd_count", d.SDCount)
	v = nonNegative(v, "smp_count", d.SMPCount)
	v = nonNegative(v, "sma_count", d.SMACount)
	v = nonNegative(v, "special_needs_count", d.SpecialNeedsCount)
	return v
}

// ToddlerData breaks toddlers down by age and nutrition status.
type ToddlerData struct {
	Age6To24Months  *int `json:"age_6_24_months,omitempty"`
	Age25To60Months *int `json:"age_25_60_months,omitempty"`
	StuntingCount   *int `json:"stunting_count,omitempty"`
	WastingCount    *int `json:"wasting_count,omitempty"`
}

func (d *ToddlerData) Group() id.TargetGroup { return id.TargetGroupToddler }

func (d *ToddlerData) Violations() []string {
	var v []string
	v = nonNegative(v, "age_6_24_months", d.Age6To24Months)
	v = nonNegative(v, "age_25_60_months", d.Age25To60Months)
	v = nonNegative(v, "stunting_count", d.StuntingCount)
	v = nonNegative(v, "wasting_count", d.WastingCount)
	return v
}

// TeenageGirlData breaks teenage girls down by school attendance and
// anemia screening.
type TeenageGirlData struct {
	InSchoolCount    *int `json:"in_school_count,omitempty"`
	OutOfSchoolCount *int `json:"out_of_school_count,omitempty"`
	AnemiaRiskCount  *int `json:"anemia_risk_count,omitempty"`
}

func (d *TeenageGirlData) Group() id.TargetGroup { return id.TargetGroupTeenageGirl }

func (d *TeenageGirlData) Violations() []string {
	var v []string
	v = nonNegative(v, "in_school_count", d.InSchoolCount)
	v = nonNegative(v, "out_of_school_count", d.OutOfSchoolCount)
	v = nonNegative(v, "anemia_risk_count", d.AnemiaRiskCount)
	return v
}

// ElderlyData breaks elderly beneficiaries down by age and living/health
// circumstances.
type ElderlyData struct {
	Age60To70Count      *int `json:"age_60_70_count,omitempty"`
	AgeAbove70Count     *int `json:"age_above_70_count,omitempty"`
	ChronicIllnessCount *int `json:"chronic_illness_count,omitempty"`
	LivingAloneCount    *int `json:"living_alone_count,omitempty"`
}

func (d *ElderlyData) Group() id.TargetGroup { return id.TargetGroupElderly }

func (d *ElderlyData) Violations() []string {
	var v []string
	v = nonNegative(v, "age_60_70_count", d.Age60To70Count)
	v = nonNegative(v, "age_above_70_count", d.AgeAbove70Count)
	v = nonNegative(v, "chronic_illness_count", d.ChronicIllnessCount)
	v = nonNegative(v, "living_alone_count", d.LivingAloneCount)
	return v
}
