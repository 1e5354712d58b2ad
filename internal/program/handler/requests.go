package handler

import (
	"strings"
	"time"

	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// ProgramRequest is the HTTP request body for program create and update.
// Dates are date-only strings (2006-01-02).
type ProgramRequest struct {
	Name                string   `json:"name"`
	StartDate           string   `json:"start_date"`
	EndDate             string   `json:"end_date,omitempty"`
	TotalBudget         int64    `json:"total_budget"`
	BudgetPerMeal       int64    `json:"budget_per_meal"`
	AllowedTargetGroups []string `json:"allowed_target_groups"`

	// Parsed values (populated by Validate)
	parsedStart  time.Time
	parsedEnd    *time.Time
	parsedGroups []id.TargetGroup
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ProgramRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}

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

	if len(r.AllowedTargetGroups) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "allowed_target_groups must not be empty")
	}
	groups := make([]id.TargetGroup, 0, len(r.AllowedTargetGroups))
	for _, raw := range r.AllowedTargetGroups {
		group, err := id.ParseTargetGroup(raw)
		if err != nil {
			return err
		}
		groups = append(groups, group)
	}
	r.parsedGroups = groups

	return nil
}

// ParsedStartDate returns the validated start date.
func (r *ProgramRequest) ParsedStartDate() time.Time { return r.parsedStart }

// ParsedEndDate returns the validated end date, nil for open-ended.
func (r *ProgramRequest) ParsedEndDate() *time.Time { return r.parsedEnd }

// ParsedTargetGroups returns the validated allowed groups.
func (r *ProgramRequest) ParsedTargetGroups() []id.TargetGroup { return r.parsedGroups }
