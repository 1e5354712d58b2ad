// Package handler wires the enrollment endpoints to the enrollment
// service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sppg/internal/enrollment/models"
	"sppg/internal/enrollment/service"
	"sppg/internal/enrollment/validate"
	id "sppg/pkg/domain"
	"sppg/pkg/platform/httputil"
	"sppg/pkg/requestcontext"
)

// Service defines the interface for enrollment operations.
type Service interface {
	Create(ctx context.Context, input service.Input) (*models.Enrollment, error)
	Update(ctx context.Context, enrollmentID id.EnrollmentID, input service.Input) (*models.Enrollment, error)
	Get(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error)
	ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Enrollment, error)
	CheckBudgetExceedance(ctx context.Context, programID id.ProgramID, newAllocation int64) (*validate.ExceedanceResult, error)
}

// Handler wires enrollment endpoints to the enrollment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an enrollment handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts enrollment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/programs/{programID}/enrollments", h.HandleCreate)
	r.Get("/programs/{programID}/enrollments", h.HandleListByProgram)
	r.Post("/programs/{programID}/budget-check", h.HandleBudgetCheck)
	r.Get("/enrollments/{enrollmentID}", h.HandleGet)
	r.Put("/enrollments/{enrollmentID}", h.HandleUpdate)
}

// HandleCreate handles POST /programs/{programID}/enrollments requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[EnrollmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	enr, err := h.service.Create(ctx, h.toInput(programID, req))
	if err != nil {
		// Validation rejections are expected traffic; the service
		// already logged them with their code.
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "enrollment accepted",
		"request_id", requestID,
		"enrollment_id", enr.ID,
		"program_id", programID,
		"target_group", req.TargetGroup,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromEnrollment(enr))
}

// HandleUpdate handles PUT /enrollments/{enrollmentID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[EnrollmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	enr, err := h.service.Update(ctx, enrollmentID, h.toInput(id.ProgramID{}, req))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEnrollment(enr))
}

// HandleGet handles GET /enrollments/{enrollmentID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "enrollmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	enr, err := h.service.Get(ctx, enrollmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEnrollment(enr))
}

// HandleListByProgram handles GET /programs/{programID}/enrollments requests.
func (h *Handler) HandleListByProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	enrollments, err := h.service.ListByProgram(ctx, programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEnrollments(enrollments))
}

// HandleBudgetCheck handles POST /programs/{programID}/budget-check requests.
func (h *Handler) HandleBudgetCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[BudgetCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CheckBudgetExceedance(ctx, programID, req.MonthlyAllocation)
	if err != nil {
		h.logger.ErrorContext(ctx, "budget exceedance check failed",
			"request_id", requestID,
			"program_id", programID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromExceedanceResult(result))
}

func (h *Handler) toInput(programID id.ProgramID, req *EnrollmentRequest) service.Input {
	return service.Input{
		ProgramID:           programID,
		OrganizationID:      req.ParsedOrganizationID(),
		TargetGroup:         req.ParsedTargetGroup(),
		TargetBeneficiaries: req.TargetBeneficiaries,
		StartDate:           req.ParsedStartDate(),
		EndDate:             req.ParsedEndDate(),
		AgeBands:            req.AgeBandCounts(),
		Genders:             req.GenderCounts(),
		MealsPerDay:         req.MealsPerDay,
		FeedingDaysPerWeek:  req.FeedingDaysPerWeek,
		MonthlyBudget:       req.MonthlyBudget,
		TargetGroupData:     req.TargetGroupData,
	}
}
