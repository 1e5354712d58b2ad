package handler

import (
	"encoding/json"
	"time"

	"sppg/internal/enrollment/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// AgeBandsRequest mirrors the age-band breakdown of an enrollment body.
type AgeBandsRequest struct {
	Age0To2    int `json:"age_0_2"`
	Age3To5    int `json:"age_3_5"`
	Age6To12   int `json:"age_6_12"`
	Age13To15  int `json:"age_13_15"`
	Age16To18  int `json:"age_16_18"`
	AgeAbove18 int `json:"age_above_18"`
}

// GendersRequest mirrors the gender breakdown of an enrollment body.
type GendersRequest struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// EnrollmentRequest is the HTTP request body for enrollment create and
// update. Dates are date-only strings; target_group_data stays raw for
// the schema registry.
type EnrollmentRequest struct {
	OrganizationID      string          `json:"organization_id"`
	TargetGroup         string          `json:"target_group"`
	TargetBeneficiaries int             `json:"target_beneficiaries"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date,omitempty"`
	AgeBands            AgeBandsRequest `json:"age_bands"`
	Genders             GendersRequest  `json:"genders"`
	MealsPerDay         *int            `json:"meals_per_day,omitempty"`
	FeedingDaysPerWeek  *int            `json:"feeding_days_per_week,omitempty"`
	MonthlyBudget       *int64          `json:"monthly_budget,omitempty"`
	TargetGroupData     json.RawMessage `json:"target_group_data,omitempty"`

	// Parsed values (populated by Validate)
	parsedOrganizationID id.OrganizationID
	parsedTargetGroup    id.TargetGroup
	parsedStart          time.Time
	parsedEnd            *time.Time
}

// Validate validates and parses the request. Negative breakdown counts
// are rejected here; the cross-field rules belong to the validation
// pipeline.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EnrollmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	orgID, err := id.ParseOrganizationID(r.OrganizationID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "organization_id is invalid")
	}
	r.parsedOrganizationID = orgID

	group, err := id.ParseTargetGroup(r.TargetGroup)
	if err != nil {
		// A group with no registered demographic schema is a validation
		// outcome, not a malformed request.
		if r.TargetGroup != "" {
			return dErrors.Newf(dErrors.CodeSchema, "unsupported target group: %s", r.TargetGroup)
		}
		return err
	}
	r.parsedTargetGroup = group

	if r.StartDate == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "start_date is required")
	}
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return dErrors.Newf(dErrors.CodeInvalidInput, "start_date must be a %s date", time.DateOnly)
	}
	r.parsedStart = start

	if r.EndDate != "" {
		end, err := time.Parse(time.DateOnly, r.EndDate)
		if err != nil {
			return dErrors.Newf(dErrors.CodeInvalidInput, "end_date must be a %s date", time.DateOnly)
		}
		r.parsedEnd = &end
	}

	for _, count := range []int{
		r.AgeBands.Age0To2, r.AgeBands.Age3To5, r.AgeBands.Age6To12,
		r.AgeBands.Age13To15, r.AgeBands.Age16To18, r.AgeBands.AgeAbove18,
		r.Genders.Male, r.Genders.Female,
	} {
		if count < 0 {
			return dErrors.New(dErrors.CodeInvalidInput, "breakdown counts must not be negative")
		}
	}

	return nil
}

// ParsedOrganizationID returns the validated organization ID.
func (r *EnrollmentRequest) ParsedOrganizationID() id.OrganizationID { return r.parsedOrganizationID }

// ParsedTargetGroup returns the validated target group.
func (r *EnrollmentRequest) ParsedTargetGroup() id.TargetGroup { return r.parsedTargetGroup }

// ParsedStartDate returns the validated start date.
func (r *EnrollmentRequest) ParsedStartDate() time.Time { return r.parsedStart }

// ParsedEndDate returns the validated end date, nil when absent.
func (r *EnrollmentRequest) ParsedEndDate() *time.Time { return r.parsedEnd }

// AgeBandCounts converts the breakdown to its domain form.
func (r *EnrollmentRequest) AgeBandCounts() models.AgeBandCounts {
	return models.AgeBandCounts{
		Age0To2:    r.AgeBands.Age0To2,
		Age3To5:    r.AgeBands.Age3To5,
		Age6To12:   r.AgeBands.Age6To12,
		Age13To15:  r.AgeBands.Age13To15,
		Age16To18:  r.AgeBands.Age16To18,
		AgeAbove18: r.AgeBands.AgeAbove18,
	}
}

// GenderCounts converts the breakdown to its domain form.
func (r *EnrollmentRequest) GenderCounts() models.GenderCounts {
	return models.GenderCounts{Male: r.Genders.Male, Female: r.Genders.Female}
}

// BudgetCheckRequest is the HTTP request body for POST
// /programs/{programID}/budget-check.
type BudgetCheckRequest struct {
	MonthlyAllocation int64 `json:"monthly_allocation"`
}

// Validate validates the request.
func (r *BudgetCheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.MonthlyAllocation < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "monthly_allocation must not be negative")
	}
	return nil
}
