package handler

import (
	"time"

	"sppg/internal/enrollment/models"
	"sppg/internal/enrollment/validate"
)

// EnrollmentResponse is the HTTP representation of an enrollment.
type EnrollmentResponse struct {
	ID                  string                 `json:"id"`
	ProgramID           string                 `json:"program_id"`
	OrganizationID      string                 `json:"organization_id"`
	TargetGroup         string                 `json:"target_group"`
	TargetBeneficiaries int                    `json:"target_beneficiaries"`
	StartDate           string                 `json:"start_date"`
	EndDate             string                 `json:"end_date,omitempty"`
	AgeBands            AgeBandsRequest        `json:"age_bands"`
	Genders             GendersRequest         `json:"genders"`
	MealsPerDay         *int                   `json:"meals_per_day,omitempty"`
	FeedingDaysPerWeek  *int                   `json:"feeding_days_per_week,omitempty"`
	MonthlyBudget       *int64                 `json:"monthly_budget,omitempty"`
	TargetGroupData     models.TargetGroupData `json:"target_group_data,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// FromEnrollment converts a domain enrollment to an HTTP response.
func FromEnrollment(enr *models.Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:                  enr.ID.String(),
		ProgramID:           enr.ProgramID.String(),
		OrganizationID:      enr.OrganizationID.String(),
		TargetGroup:         enr.TargetGroup.String(),
		TargetBeneficiaries: enr.TargetBeneficiaries,
		StartDate:           enr.StartDate.Format(time.DateOnly),
		AgeBands: AgeBandsRequest{
			Age0To2:    enr.AgeBands.Age0To2,
			Age3To5:    enr.AgeBands.Age3To5,
			Age6To12:   enr.AgeBands.Age6To12,
			Age13To15:  enr.AgeBands.Age13To15,
			Age16To18:  enr.AgeBands.Age16To18,
			AgeAbove18: enr.AgeBands.AgeAbove18,
		},
		Genders:            GendersRequest{Male: enr.Genders.Male, Female: enr.Genders.Female},
		MealsPerDay:        enr.MealsPerDay,
		FeedingDaysPerWeek: enr.FeedingDaysPerWeek,
		MonthlyBudget:      enr.MonthlyBudget,
		TargetGroupData:    enr.TargetGroupData,
		CreatedAt:          enr.CreatedAt,
		UpdatedAt:          enr.UpdatedAt,
	}
	if enr.EndDate != nil {
		resp.EndDate = enr.EndDate.Format(time.DateOnly)
	}
	return resp
}

// FromEnrollments converts an enrollment list.
func FromEnrollments(enrollments []*models.Enrollment) []*EnrollmentResponse {
	out := make([]*EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, FromEnrollment(e))
	}
	return out
}

// BudgetCheckResponse is the HTTP response for POST
// /programs/{programID}/budget-check.
type BudgetCheckResponse struct {
	Exceeded             bool  `json:"exceeded"`
	Months               int   `json:"months"`
	ExistingMonthlyTotal int64 `json:"existing_monthly_total"`
	ProjectedTotal       int64 `json:"projected_total"`
	TotalBudget          int64 `json:"total_budget"`
}

// FromExceedanceResult converts a domain exceedance result.
func FromExceedanceResult(result *validate.ExceedanceResult) *BudgetCheckResponse {
	return &BudgetCheckResponse{
		Exceeded:             result.Exceeded,
		Months:               result.Months,
		ExistingMonthlyTotal: result.ExistingMonthlyTotal,
		ProjectedTotal:       result.ProjectedTotal,
		TotalBudget:          result.TotalBudget,
	}
}
