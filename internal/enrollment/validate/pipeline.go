package validate

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sppg/internal/enrollment/models"
	"sppg/internal/enrollment/ports"
	"sppg/internal/enrollment/schema"
	dErrors "sppg/pkg/domain-errors"
)

// Pipeline sequences every check for one enrollment write in a fixed
// order, short-circuiting on the first failure. It performs exactly one
// external read (the parent program) and hands the snapshot to the pure
// checks, so the whole run is deterministic given that snapshot.
//
// Order:
//  1. program eligibility (program-not-found surfaces here)
//  2. date range
//  3. age/gender breakdown consistency
//  4. budget tolerance (only when an allocation is declared)
//  5. target-group payload schema (only when a payload is declared)
//  6. scalar bounds
//
// The pipeline holds no per-call state; running it twice on identical
// input yields identical results.
type Pipeline struct {
	policy   Policy
	programs ports.ProgramReader
	registry *schema.Registry
	tracer   trace.Tracer
}

// NewPipeline constructs the validation pipeline.
func NewPipeline(policy Policy, programs ports.ProgramReader) (*Pipeline, error) {
	if programs == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "program reader is required")
	}
	return &Pipeline{
		policy:   policy,
		programs: programs,
		registry: schema.NewRegistry(),
		tracer:   otel.Tracer("sppg/enrollment/validate"),
	}, nil
}

// Validate runs the full check sequence for enr with its raw demographic
// payload. On success it returns the parsed payload (nil when absent) for
// the caller to attach before persisting. On failure it returns the coded
// domain error of the first check that rejected; nothing is written
// anywhere in either case.
func (p *Pipeline) Validate(ctx context.Context, enr *models.Enrollment, rawPayload json.RawMessage) (models.TargetGroupData, error) {
	ctx, span := p.tracer.Start(ctx, "enrollment.validate",
		trace.WithAttributes(
			attribute.String("program_id", enr.ProgramID.String()),
			attribute.String("target_group", enr.TargetGroup.String()),
		))
	defer span.End()

	data, err := p.validate(ctx, enr, rawPayload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return data, nil
}

func (p *Pipeline) validate(ctx context.Context, enr *models.Enrollment, rawPayload json.RawMessage) (models.TargetGroupData, error) {
	program, err := p.programs.GetProgram(ctx, enr.TenantID, enr.ProgramID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.Newf(dErrors.CodeEligibility, "program %s not found", enr.ProgramID)
		}
		return nil, err
	}

	if err := CheckEligibility(program, enr.TargetGroup); err != nil {
		return nil, err
	}

	if err := CheckDateRange(program, enr.StartDate, enr.EndDate); err != nil {
		return nil, err
	}

	if err := CheckBreakdownConsistency(enr.TargetBeneficiaries, enr.AgeBands, enr.Genders); err != nil {
		return nil, err
	}

	if err := CheckBudgetTolerance(p.policy, program, enr.TargetBeneficiaries, enr.MealsPerDay, enr.FeedingDaysPerWeek, enr.MonthlyBudget); err != nil {
		return nil, err
	}

	data, err := p.registry.Parse(enr.TargetGroup, rawPayload)
	if err != nil {
		return nil, err
	}

	if err := CheckScalarBounds(p.policy, enr.TargetBeneficiaries, enr.MealsPerDay, enr.FeedingDaysPerWeek); err != nil {
		return nil, err
	}

	return data, nil
}
