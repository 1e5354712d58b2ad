package handler

import (
	"time"

	"sppg/internal/program/models"
)

// ProgramResponse is the HTTP representation of a program.
type ProgramResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	StartDate           string    `json:"start_date"`
	EndDate             string    `json:"end_date,omitempty"`
	TotalBudget         int64     `json:"total_budget"`
	BudgetPerMeal       int64     `json:"budget_per_meal"`
	AllowedTargetGroups []string  `json:"allowed_target_groups"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// FromProgram converts a domain program to an HTTP response.
func FromProgram(program *models.Program) *ProgramResponse {
	groups := make([]string, 0, len(program.AllowedTargetGroups))
	for _, g := range program.AllowedTargetGroups {
		groups = append(groups, g.String())
	}

	resp := &ProgramResponse{
		ID:                  program.ID.String(),
		Name:                program.Name,
		StartDate:           program.StartDate.Format(time.DateOnly),
		TotalBudget:         program.TotalBudget,
		BudgetPerMeal:       program.BudgetPerMeal,
		AllowedTargetGroups: groups,
		CreatedAt:           program.CreatedAt,
		UpdatedAt:           program.UpdatedAt,
	}
	if program.EndDate != nil {
		resp.EndDate = program.EndDate.Format(time.DateOnly)
	}
	return resp
}

// FromPrograms converts a program list.
func FromPrograms(programs []*models.Program) []*ProgramResponse {
	out := make([]*ProgramResponse, 0, len(programs))
	for _, p := range programs {
		out = append(out, FromProgram(p))
	}
	return out
}
