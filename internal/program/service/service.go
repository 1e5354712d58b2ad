// Package service manages nutrition program definitions for a tenant.
package service

import (
	"context"
	"log/slog"
	"time"

	"sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/requestcontext"
)

// Store is the program persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
	GetProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) (*models.Program, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Program, error)
}

// Invalidator drops a cached program snapshot after a write. The Redis
// program cache implements it; memory-only deployments pass nil.
type Invalidator interface {
	Invalidate(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) error
}

// AuditPublisher records program lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Input carries the declared fields of a program write.
type Input struct {
	Name                string
	StartDate           time.Time
	EndDate             *time.Time
	TotalBudget         int64
	BudgetPerMeal       int64
	AllowedTargetGroups []id.TargetGroup
}

// Service validates and persists programs.
type Service struct {
	store Store

	logger  *slog.Logger
	cache   Invalidator
	auditor AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithCacheInvalidator(cache Invalidator) Option {
	return func(s *Service) { s.cache = cache }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

// New constructs the program service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "program store is required")
	}
	svc := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates input and persists a new program.
func (s *Service) Create(ctx context.Context, input Input) (*models.Program, error) {
	tenantID := requestcontext.TenantID(ctx)
	now := requestcontext.Now(ctx)

	program, err := models.NewProgram(
		id.NewProgramID(),
		tenantID,
		input.Name,
		input.StartDate,
		input.EndDate,
		input.TotalBudget,
		input.BudgetPerMeal,
		input.AllowedTargetGroups,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, program); err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		TenantID:  tenantID,
		UserID:    requestcontext.UserID(ctx),
		ProgramID: program.ID,
		Action:    string(audit.EventProgramCreated),
	})
	s.logger.InfoContext(ctx, "program created",
		"request_id", requestcontext.RequestID(ctx),
		"program_id", program.ID,
		"name", program.Name,
	)
	return program, nil
}

// Update replaces a program's declared fields and drops any cached
// snapshot so the next validation run sees the new definition.
func (s *Service) Update(ctx context.Context, programID id.ProgramID, input Input) (*models.Program, error) {
	tenantID := requestcontext.TenantID(ctx)

	existing, err := s.store.GetProgram(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}

	updated, err := models.NewProgram(
		programID,
		tenantID,
		input.Name,
		input.StartDate,
		input.EndDate,
		input.TotalBudget,
		input.BudgetPerMeal,
		input.AllowedTargetGroups,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	updated.CreatedAt = existing.CreatedAt

	if err := s.store.Update(ctx, updated); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, tenantID, programID); err != nil {
			s.logger.WarnContext(ctx, "program cache invalidation failed",
				"program_id", programID,
				"error", err,
			)
		}
	}

	s.emit(ctx, audit.Event{
		TenantID:  tenantID,
		UserID:    requestcontext.UserID(ctx),
		ProgramID: programID,
		Action:    string(audit.EventProgramUpdated),
	})
	return updated, nil
}

// Get fetches one program.
func (s *Service) Get(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	return s.store.GetProgram(ctx, requestcontext.TenantID(ctx), programID)
}

// List fetches all programs of the tenant.
func (s *Service) List(ctx context.Context) ([]*models.Program, error) {
	return s.store.ListByTenant(ctx, requestcontext.TenantID(ctx))
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
