// Package handler wires the program endpoints to the program service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sppg/internal/program/models"
	"sppg/internal/program/service"
	id "sppg/pkg/domain"
	"sppg/pkg/platform/httputil"
	"sppg/pkg/requestcontext"
)

// Service defines the interface for program operations.
type Service interface {
	Create(ctx context.Context, input service.Input) (*models.Program, error)
	Update(ctx context.Context, programID id.ProgramID, input service.Input) (*models.Program, error)
	Get(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	List(ctx context.Context) ([]*models.Program, error)
}

// Handler wires program endpoints to the program service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a program handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts program endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/programs", h.HandleCreate)
	r.Get("/programs", h.HandleList)
	r.Get("/programs/{programID}", h.HandleGet)
	r.Put("/programs/{programID}", h.HandleUpdate)
}

// HandleCreate handles POST /programs requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	program, err := h.service.Create(ctx, service.Input{
		Name:                req.Name,
		StartDate:           req.ParsedStartDate(),
		EndDate:             req.ParsedEndDate(),
		TotalBudget:         req.TotalBudget,
		BudgetPerMeal:       req.BudgetPerMeal,
		AllowedTargetGroups: req.ParsedTargetGroups(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "program creation failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromProgram(program))
}

// HandleUpdate handles PUT /programs/{programID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	program, err := h.service.Update(ctx, programID, service.Input{
		Name:                req.Name,
		StartDate:           req.ParsedStartDate(),
		EndDate:             req.ParsedEndDate(),
		TotalBudget:         req.TotalBudget,
		BudgetPerMeal:       req.BudgetPerMeal,
		AllowedTargetGroups: req.ParsedTargetGroups(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "program update failed",
			"request_id", requestID,
			"program_id", programID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromProgram(program))
}

// HandleGet handles GET /programs/{programID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programID, err := id.ParseProgramID(chi.URLParam(r, "programID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	program, err := h.service.Get(ctx, programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromProgram(program))
}

// HandleList handles GET /programs requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	programs, err := h.service.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPrograms(programs))
}
