package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	txcontext "sppg/pkg/platform/tx"
)

// Schema is the programs table DDL. Migration tooling owns production
// schemas; integration tests execute this directly.
const Schema = `
CREATE TABLE IF NOT EXISTS programs (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    name TEXT NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ,
    total_budget BIGINT NOT NULL,
    budget_per_meal BIGINT NOT NULL,
    allowed_target_groups TEXT[] NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS programs_tenant_idx ON programs (tenant_id);
`

// PostgresStore persists programs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed program store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, program *models.Program) error {
	if program == nil {
		return dErrors.New(dErrors.CodeInternal, "program is required")
	}
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO programs (
			id, tenant_id, name, start_date, end_date,
			total_budget, budget_per_meal, allowed_target_groups,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(program.ID), uuid.UUID(program.TenantID), program.Name,
		program.StartDate, nullTime(program.EndDate),
		program.TotalBudget, program.BudgetPerMeal,
		pq.Array(groupStrings(program.AllowedTargetGroups)),
		program.CreatedAt, program.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return dErrors.Newf(dErrors.CodeConflict, "program %s already exists", program.ID)
		}
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, program *models.Program) error {
	if program == nil {
		return dErrors.New(dErrors.CodeInternal, "program is required")
	}
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE programs SET
			name = $3, start_date = $4, end_date = $5,
			total_budget = $6, budget_per_meal = $7,
			allowed_target_groups = $8, updated_at = $9
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(program.ID), uuid.UUID(program.TenantID), program.Name,
		program.StartDate, nullTime(program.EndDate),
		program.TotalBudget, program.BudgetPerMeal,
		pq.Array(groupStrings(program.AllowedTargetGroups)),
		program.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "program %s not found", program.ID)
	}
	return nil
}

// GetProgram implements ports.ProgramReader.
func (s *PostgresStore) GetProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) (*models.Program, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, tenant_id, name, start_date, end_date,
		       total_budget, budget_per_meal, allowed_target_groups,
		       created_at, updated_at
		FROM programs
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(programID), uuid.UUID(tenantID),
	)
	program, err := scanProgram(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "program %s not found", programID)
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return program, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Program, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, tenant_id, name, start_date, end_date,
		       total_budget, budget_per_meal, allowed_target_groups,
		       created_at, updated_at
		FROM programs
		WHERE tenant_id = $1
		ORDER BY created_at`,
		uuid.UUID(tenantID),
	)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var out []*models.Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		out = append(out, program)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*models.Program, error) {
	var (
		programID uuid.UUID
		tenantID  uuid.UUID
		program   models.Program
		endDate   sql.NullTime
		groups    pq.StringArray
	)
	err := row.Scan(
		&programID, &tenantID, &program.Name, &program.StartDate, &endDate,
		&program.TotalBudget, &program.BudgetPerMeal, &groups,
		&program.CreatedAt, &program.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	program.ID = id.ProgramID(programID)
	program.TenantID = id.TenantID(tenantID)
	if endDate.Valid {
		t := endDate.Time
		program.EndDate = &t
	}
	program.AllowedTargetGroups = make([]id.TargetGroup, 0, len(groups))
	for _, g := range groups {
		program.AllowedTargetGroups = append(program.AllowedTargetGroups, id.TargetGroup(g))
	}
	return &program, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func groupStrings(groups []id.TargetGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, string(g))
	}
	return out
}
