package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sppg/internal/enrollment/models"
	"sppg/internal/enrollment/schema"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	txcontext "sppg/pkg/platform/tx"
)

// Schema is the enrollments table DDL. The unique index is the storage
// half of the one-enrollment-per-(program, organization) rule; the
// validation core deliberately does not enforce it.
const Schema = `
CREATE TABLE IF NOT EXISTS enrollments (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    program_id UUID NOT NULL,
    organization_id UUID NOT NULL,
    target_group TEXT NOT NULL,
    target_beneficiaries INT NOT NULL,
    start_date TIMESTAMPTZ NOT NULL,
    end_date TIMESTAMPTZ,
    age_0_2 INT NOT NULL DEFAULT 0,
    age_3_5 INT NOT NULL DEFAULT 0,
    age_6_12 INT NOT NULL DEFAULT 0,
    age_13_15 INT NOT NULL DEFAULT 0,
    age_16_18 INT NOT NULL DEFAULT 0,
    age_above_18 INT NOT NULL DEFAULT 0,
    male INT NOT NULL DEFAULT 0,
    female INT NOT NULL DEFAULT 0,
    meals_per_day INT,
    feeding_days_per_week INT,
    monthly_budget BIGINT,
    target_group_data JSONB,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS enrollments_program_org_idx
    ON enrollments (tenant_id, program_id, organization_id);
CREATE INDEX IF NOT EXISTS enrollments_program_idx ON enrollments (tenant_id, program_id);
`

// PostgresStore persists enrollments in PostgreSQL.
type PostgresStore struct {
	db       *sql.DB
	registry *schema.Registry
}

// NewPostgres constructs a PostgreSQL-backed enrollment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, registry: schema.NewRegistry()}
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

const enrollmentColumns = `
	id, tenant_id, program_id, organization_id,
	target_group, target_beneficiaries, start_date, end_date,
	age_0_2, age_3_5, age_6_12, age_13_15, age_16_18, age_above_18,
	male, female,
	meals_per_day, feeding_days_per_week, monthly_budget, target_group_data,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, enr *models.Enrollment) error {
	if enr == nil {
		return dErrors.New(dErrors.CodeInternal, "enrollment is required")
	}
	payload, err := marshalPayload(enr.TargetGroupData)
	if err != nil {
		return err
	}
	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO enrollments (`+enrollmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		uuid.UUID(enr.ID), uuid.UUID(enr.TenantID), uuid.UUID(enr.ProgramID), uuid.UUID(enr.OrganizationID),
		string(enr.TargetGroup), enr.TargetBeneficiaries, enr.StartDate, nullTime(enr.EndDate),
		enr.AgeBands.Age0To2, enr.AgeBands.Age3To5, enr.AgeBands.Age6To12,
		enr.AgeBands.Age13To15, enr.AgeBands.Age16To18, enr.AgeBands.AgeAbove18,
		enr.Genders.Male, enr.Genders.Female,
		nullInt(enr.MealsPerDay), nullInt(enr.FeedingDaysPerWeek), nullInt64(enr.MonthlyBudget), payload,
		enr.CreatedAt, enr.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return dErrors.Newf(dErrors.CodeConflict,
				"organization %s is already enrolled in program %s", enr.OrganizationID, enr.ProgramID)
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, enr *models.Enrollment) error {
	if enr == nil {
		return dErrors.New(dErrors.CodeInternal, "enrollment is required")
	}
	payload, err := marshalPayload(enr.TargetGroupData)
	if err != nil {
		return err
	}
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE enrollments SET
			target_group = $3, target_beneficiaries = $4,
			start_date = $5, end_date = $6,
			age_0_2 = $7, age_3_5 = $8, age_6_12 = $9,
			age_13_15 = $10, age_16_18 = $11, age_above_18 = $12,
			male = $13, female = $14,
			meals_per_day = $15, feeding_days_per_week = $16,
			monthly_budget = $17, target_group_data = $18,
			updated_at = $19
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(enr.ID), uuid.UUID(enr.TenantID),
		string(enr.TargetGroup), enr.TargetBeneficiaries,
		enr.StartDate, nullTime(enr.EndDate),
		enr.AgeBands.Age0To2, enr.AgeBands.Age3To5, enr.AgeBands.Age6To12,
		enr.AgeBands.Age13To15, enr.AgeBands.Age16To18, enr.AgeBands.AgeAbove18,
		enr.Genders.Male, enr.Genders.Female,
		nullInt(enr.MealsPerDay), nullInt(enr.FeedingDaysPerWeek), nullInt64(enr.MonthlyBudget), payload,
		enr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "enrollment %s not found", enr.ID)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE id = $1 AND tenant_id = $2`,
		uuid.UUID(enrollmentID), uuid.UUID(tenantID),
	)
	enr, err := s.scanEnrollment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "enrollment %s not found", enrollmentID)
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return enr, nil
}

func (s *PostgresStore) ListByProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) ([]*models.Enrollment, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+enrollmentColumns+`
		FROM enrollments
		WHERE tenant_id = $1 AND program_id = $2
		ORDER BY created_at`,
		uuid.UUID(tenantID), uuid.UUID(programID),
	)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var out []*models.Enrollment
	for rows.Next() {
		enr, err := s.scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("list enrollments: %w", err)
		}
		out = append(out, enr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}

// GetEnrollmentAllocations implements ports.AllocationReader with a
// single aggregate query; NULL allocations are filtered at the database.
func (s *PostgresStore) GetEnrollmentAllocations(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) ([]int64, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT monthly_budget
		FROM enrollments
		WHERE tenant_id = $1 AND program_id = $2 AND monthly_budget IS NOT NULL`,
		uuid.UUID(tenantID), uuid.UUID(programID),
	)
	if err != nil {
		return nil, fmt.Errorf("get enrollment allocations: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var allocation int64
		if err := rows.Scan(&allocation); err != nil {
			return nil, fmt.Errorf("get enrollment allocations: %w", err)
		}
		out = append(out, allocation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get enrollment allocations: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	var (
		enrollmentID uuid.UUID
		tenantID     uuid.UUID
		programID    uuid.UUID
		orgID        uuid.UUID
		group        string
		enr          models.Enrollment
		endDate      sql.NullTime
		meals        sql.NullInt64
		feedingDays  sql.NullInt64
		budget       sql.NullInt64
		payload      []byte
	)
	err := row.Scan(
		&enrollmentID, &tenantID, &programID, &orgID,
		&group, &enr.TargetBeneficiaries, &enr.StartDate, &endDate,
		&enr.AgeBands.Age0To2, &enr.AgeBands.Age3To5, &enr.AgeBands.Age6To12,
		&enr.AgeBands.Age13To15, &enr.AgeBands.Age16To18, &enr.AgeBands.AgeAbove18,
		&enr.Genders.Male, &enr.Genders.Female,
		&meals, &feedingDays, &budget, &payload,
		&enr.CreatedAt, &enr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	enr.ID = id.EnrollmentID(enrollmentID)
	enr.TenantID = id.TenantID(tenantID)
	enr.ProgramID = id.ProgramID(programID)
	enr.OrganizationID = id.OrganizationID(orgID)
	enr.TargetGroup = id.TargetGroup(group)
	if endDate.Valid {
		t := endDate.Time
		enr.EndDate = &t
	}
	if meals.Valid {
		v := int(meals.Int64)
		enr.MealsPerDay = &v
	}
	if feedingDays.Valid {
		v := int(feedingDays.Int64)
		enr.FeedingDaysPerWeek = &v
	}
	if budget.Valid {
		v := budget.Int64
		enr.MonthlyBudget = &v
	}
	if len(payload) > 0 {
		// Stored payloads were validated on write; the registry rebuilds
		// the right variant from the persisted target group.
		data, perr := s.registry.Parse(enr.TargetGroup, payload)
		if perr != nil {
			return nil, fmt.Errorf("decode target group data for enrollment %s: %w", enr.ID, perr)
		}
		enr.TargetGroupData = data
	}
	return &enr, nil
}

func marshalPayload(data models.TargetGroupData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode target group data: %w", err)
	}
	return body, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
