// Package models defines the Program aggregate.
package models

import (
	"time"

	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// Program is a nutrition-distribution initiative with a budget, a duration,
// and the set of beneficiary categories it accepts enrollments for.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - AllowedTargetGroups is non-empty, deduplicated, and contains only
//     supported groups (at most the six that exist)
//   - TotalBudget and BudgetPerMeal are positive Rupiah amounts
//   - EndDate, when present, is after StartDate
type Program struct {
	ID                  id.ProgramID     `json:"id"`
	TenantID            id.TenantID      `json:"tenant_id"`
	Name                string           `json:"name"`
	StartDate           time.Time        `json:"start_date"`
	EndDate             *time.Time       `json:"end_date,omitempty"`
	TotalBudget         int64            `json:"total_budget"`
	BudgetPerMeal       int64            `json:"budget_per_meal"`
	AllowedTargetGroups []id.TargetGroup `json:"allowed_target_groups"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// AllowsTargetGroup reports whether the program accepts enrollments for
// the given group.
func (p *Program) AllowsTargetGroup(group id.TargetGroup) bool {
	for _, g := range p.AllowedTargetGroups {
		if g == group {
			return true
		}
	}
	return false
}

// IsOpenEnded reports whether the program has no configured end date.
func (p *Program) IsOpenEnded() bool {
	return p.EndDate == nil
}

// NewProgram constructs a Program, enforcing its invariants. The allowed
// group list keeps its declared order but drops duplicates.
func NewProgram(
	programID id.ProgramID,
	tenantID id.TenantID,
	name string,
	startDate time.Time,
	endDate *time.Time,
	totalBudget, budgetPerMeal int64,
	allowedGroups []id.TargetGroup,
	now time.Time,
) (*Program, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "program name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "program name must be 128 characters or less")
	}
	if totalBudget <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "program total budget must be positive")
	}
	if budgetPerMeal <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "program budget per meal must be positive")
	}
	if endDate != nil && !endDate.After(startDate) {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"program end date %s must be after start date %s",
			endDate.Format(time.DateOnly), startDate.Format(time.DateOnly))
	}

	deduped, err := dedupeTargetGroups(allowedGroups)
	if err != nil {
		return nil, err
	}

	return &Program{
		ID:                  programID,
		TenantID:            tenantID,
		Name:                name,
		StartDate:           startDate,
		EndDate:             endDate,
		TotalBudget:         totalBudget,
		BudgetPerMeal:       budgetPerMeal,
		AllowedTargetGroups: deduped,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func dedupeTargetGroups(groups []id.TargetGroup) ([]id.TargetGroup, error) {
	if len(groups) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "program must allow at least one target group")
	}

	seen := make(map[id.TargetGroup]bool, len(groups))
	deduped := make([]id.TargetGroup, 0, len(groups))
	for _, g := range groups {
		if !g.IsValid() {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unsupported target group in allowed list: %s", g)
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		deduped = append(deduped, g)
	}
	return deduped, nil
}
