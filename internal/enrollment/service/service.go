// Package service orchestrates enrollment writes: every create or update
// runs the full validation pipeline against the parent program before the
// store sees anything.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"sppg/internal/enrollment/metrics"
	"sppg/internal/enrollment/models"
	"sppg/internal/enrollment/ports"
	"sppg/internal/enrollment/validate"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/requestcontext"
)

// Store is the enrollment persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, enr *models.Enrollment) error
	Update(ctx context.Context, enr *models.Enrollment) error
	FindByID(ctx context.Context, tenantID id.TenantID, enrollmentID id.EnrollmentID) (*models.Enrollment, error)
	ListByProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) ([]*models.Enrollment, error)
}

// Input carries everything an organization declares for one enrollment
// write. TargetGroupData stays raw until the schema registry parses it
// inside the pipeline.
type Input struct {
	ProgramID      id.ProgramID
	OrganizationID id.OrganizationID

	TargetGroup         id.TargetGroup
	TargetBeneficiaries int

	StartDate time.Time
	EndDate   *time.Time

	AgeBands models.AgeBandCounts
	Genders  models.GenderCounts

	MealsPerDay        *int
	FeedingDaysPerWeek *int
	MonthlyBudget      *int64

	TargetGroupData json.RawMessage
}

// Service validates and persists enrollments.
type Service struct {
	store      Store
	pipeline   *validate.Pipeline
	exceedance *validate.ExceedanceChecker

	logger  *slog.Logger
	auditor ports.AuditPublisher
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the enrollment service.
func New(store Store, pipeline *validate.Pipeline, exceedance *validate.ExceedanceChecker, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "enrollment store is required")
	}
	if pipeline == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "validation pipeline is required")
	}
	if exceedance == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "exceedance checker is required")
	}

	svc := &Service{
		store:      store,
		pipeline:   pipeline,
		exceedance: exceedance,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates input and persists a new enrollment. A validation
// failure leaves no trace in the store.
func (s *Service) Create(ctx context.Context, input Input) (*models.Enrollment, error) {
	tenantID := requestcontext.TenantID(ctx)
	now := requestcontext.Now(ctx)

	enr := &models.Enrollment{
		ID:                  id.NewEnrollmentID(),
		TenantID:            tenantID,
		ProgramID:           input.ProgramID,
		OrganizationID:      input.OrganizationID,
		TargetGroup:         input.TargetGroup,
		TargetBeneficiaries: input.TargetBeneficiaries,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		AgeBands:            input.AgeBands,
		Genders:             input.Genders,
		MealsPerDay:         input.MealsPerDay,
		FeedingDaysPerWeek:  input.FeedingDaysPerWeek,
		MonthlyBudget:       input.MonthlyBudget,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.runValidation(ctx, enr, input.TargetGroupData); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, enr); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		TenantID:     tenantID,
		UserID:       requestcontext.UserID(ctx),
		ProgramID:    enr.ProgramID,
		EnrollmentID: enr.ID,
		Action:       string(audit.EventEnrollmentCreated),
		TargetGroup:  enr.TargetGroup.String(),
	})

	s.logger.InfoContext(ctx, "enrollment created",
		"request_id", requestcontext.RequestID(ctx),
		"enrollment_id", enr.ID,
		"program_id", enr.ProgramID,
		"target_group", enr.TargetGroup,
	)
	return enr, nil
}

// Update re-validates the enrollment with the new declarations and
// persists the replacement. Program and organization bindings are fixed
// at creation: an input naming a different organization is rejected, an
// absent one is accepted.
func (s *Service) Update(ctx context.Context, enrollmentID id.EnrollmentID, input Input) (*models.Enrollment, error) {
	tenantID := requestcontext.TenantID(ctx)

	existing, err := s.store.FindByID(ctx, tenantID, enrollmentID)
	if err != nil {
		return nil, err
	}

	if !input.OrganizationID.IsNil() && input.OrganizationID != existing.OrganizationID {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "organization_id cannot change after enrollment")
	}

	updated := *existing
	updated.TargetGroup = input.TargetGroup
	updated.TargetBeneficiaries = input.TargetBeneficiaries
	updated.StartDate = input.StartDate
	updated.EndDate = input.EndDate
	updated.AgeBands = input.AgeBands
	updated.Genders = input.Genders
	updated.MealsPerDay = input.MealsPerDay
	updated.FeedingDaysPerWeek = input.FeedingDaysPerWeek
	updated.MonthlyBudget = input.MonthlyBudget
	updated.TargetGroupData = nil
	updated.UpdatedAt = requestcontext.Now(ctx)

	if err := s.runValidation(ctx, &updated, input.TargetGroupData); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		TenantID:     tenantID,
		UserID:       requestcontext.UserID(ctx),
		ProgramID:    updated.ProgramID,
		EnrollmentID: updated.ID,
		Action:       string(audit.EventEnrollmentUpdated),
		TargetGroup:  updated.TargetGroup.String(),
	})
	return &updated, nil
}

// Get fetches one enrollment.
func (s *Service) Get(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	return s.store.FindByID(ctx, requestcontext.TenantID(ctx), enrollmentID)
}

// ListByProgram fetches all enrollments under a program.
func (s *Service) ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Enrollment, error) {
	return s.store.ListByProgram(ctx, requestcontext.TenantID(ctx), programID)
}

// CheckBudgetExceedance answers whether one more monthly allocation would
// push the program past its total budget. Read-only; the caller decides
// what to do with the answer.
func (s *Service) CheckBudgetExceedance(ctx context.Context, programID id.ProgramID, newAllocation int64) (*validate.ExceedanceResult, error) {
	tenantID := requestcontext.TenantID(ctx)

	result, err := s.exceedance.Check(ctx, tenantID, programID, newAllocation)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordExceedanceCheck(result.Exceeded)
	}
	s.emit(ctx, audit.Event{
		TenantID:  tenantID,
		UserID:    requestcontext.UserID(ctx),
		ProgramID: programID,
		Action:    string(audit.EventBudgetExceedanceChecked),
	})
	return result, nil
}

// runValidation executes the pipeline, records metrics and audit events,
// and attaches the parsed payload on success.
func (s *Service) runValidation(ctx context.Context, enr *models.Enrollment, rawPayload json.RawMessage) error {
	start := time.Now()
	data, err := s.pipeline.Validate(ctx, enr, rawPayload)
	if s.metrics != nil {
		s.metrics.ValidationSeconds.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		code := dErrors.CodeOf(err)
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(string(code))
		}
		s.emit(ctx, audit.Event{
			TenantID:     enr.TenantID,
			UserID:       requestcontext.UserID(ctx),
			ProgramID:    enr.ProgramID,
			EnrollmentID: enr.ID,
			Action:       string(audit.EventEnrollmentRejected),
			TargetGroup:  enr.TargetGroup.String(),
			Reason:       err.Error(),
			FailureCode:  string(code),
		})
		s.logger.WarnContext(ctx, "enrollment validation rejected",
			"request_id", requestcontext.RequestID(ctx),
			"program_id", enr.ProgramID,
			"target_group", enr.TargetGroup,
			"code", code,
			"reason", err.Error(),
		)
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordValidationPass()
	}
	s.emit(ctx, audit.Event{
		TenantID:     enr.TenantID,
		UserID:       requestcontext.UserID(ctx),
		ProgramID:    enr.ProgramID,
		EnrollmentID: enr.ID,
		Action:       string(audit.EventEnrollmentValidated),
		TargetGroup:  enr.TargetGroup.String(),
	})

	enr.TargetGroupData = data
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"action", event.Action,
			"error", err,
		)
	}
}
