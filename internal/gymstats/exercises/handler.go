package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymvariations/internal/auth"
	"github.com/2beens/gymvariations/internal/gymstats/variations"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exercises_test

type definitionsService interface {
	CreateDefinition(ctx context.Context, owner string, req CreateRequest) (*Definition, error)
	ReplaceDefinition(ctx context.Context, owner, id string, req CreateRequest) (*Definition, error)
	GetDefinition(ctx context.Context, owner, id string) (*Definition, error)
	ListDefinitions(ctx context.Context, owner, category string) ([]Definition, error)
	ComputeTargeting(ctx context.Context, owner, id string, selection Selection) (MuscleWeights, error)
}

type CreateDefinitionResponse struct {
	ID string `json:"id"`
}

type DefinitionResponse struct {
	Definition
	Variations []ResolvedVariation `json:"variations"`
}

type TargetingResponse struct {
	ExerciseID string        `json:"exerciseId"`
	Selection  Selection     `json:"selection"`
	Weights    MuscleWeights `json:"weights"`
}

type ErrorResponse struct {
	Error      string           `json:"error"`
	Validation *ValidationError `json:"validation,omitempty"`
}

type Handler struct {
	service  definitionsService
	registry *variations.Registry
}

func NewHandler(service definitionsService, registry *variations.Registry) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.list")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	defs, err := handler.service.ListDefinitions(ctx, owner, r.URL.Query().Get("category"))
	if err != nil {
		WriteError(w, "list exercises", err)
		return
	}

	pkg.WriteJSONResponse(w, defs, http.StatusOK)
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.create")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create exercise, unmarshal json params: %s", err)
		http.Error(w, "create exercise failed", http.StatusBadRequest)
		return
	}

	def, err := handler.service.CreateDefinition(ctx, owner, req)
	if err != nil {
		WriteError(w, "create exercise", err)
		return
	}

	log.Debugf("new exercise created: %s [%s]", def.Key, def.ID)
	pkg.WriteJSONResponse(w, CreateDefinitionResponse{ID: def.ID}, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.get")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	def, err := handler.service.GetDefinition(ctx, owner, id)
	if err != nil {
		WriteError(w, "get exercise", err)
		return
	}

	pkg.WriteJSONResponse(w, DefinitionResponse{
		Definition: *def,
		Variations: def.Variations(handler.registry),
	}, http.StatusOK)
}

func (handler *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.replace")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("replace exercise, unmarshal json params: %s", err)
		http.Error(w, "replace exercise failed", http.StatusBadRequest)
		return
	}

	def, err := handler.service.ReplaceDefinition(ctx, owner, id, req)
	if err != nil {
		WriteError(w, "replace exercise", err)
		return
	}

	log.Debugf("exercise replaced: %s [%s]", def.Key, def.ID)
	pkg.WriteJSONResponse(w, DefinitionResponse{
		Definition: *def,
		Variations: def.Variations(handler.registry),
	}, http.StatusOK)
}

// HandleTargeting computes targeting for the exercise. Every query
// parameter is read as a template id with the selected option as its value.
func (handler *Handler) HandleTargeting(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.exercises.targeting")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	selection := Selection{}
	for templateID, values := range r.URL.Query() {
		if len(values) > 1 {
			WriteError(w, "compute targeting", newValidationError("selection", templateID, "", "one option per template"))
			return
		}
		selection[templateID] = values[0]
	}

	weights, err := handler.service.ComputeTargeting(ctx, owner, id, selection)
	if err != nil {
		WriteError(w, "compute targeting", err)
		return
	}

	pkg.WriteJSONResponse(w, TargetingResponse{
		ExerciseID: id,
		Selection:  selection,
		Weights:    weights,
	}, http.StatusOK)
}

// WriteError maps err to a status code: 400 for validation errors (with the
// offending field in the body), 404 for unknown ids, 409 for key conflicts
// and 500 for everything else.
func WriteError(w http.ResponseWriter, op string, err error) {
	var validationErr *ValidationError
	var conflictErr *ConflictError
	switch {
	case errors.As(err, &validationErr):
		pkg.WriteJSONResponse(w, ErrorResponse{
			Error:      validationErr.Error(),
			Validation: validationErr,
		}, http.StatusBadRequest)
	case errors.As(err, &conflictErr):
		pkg.WriteJSONResponse(w, ErrorResponse{Error: conflictErr.Error()}, http.StatusConflict)
	case errors.Is(err, ErrExerciseNotFound), errors.Is(err, variations.ErrTemplateNotFound):
		pkg.WriteJSONResponse(w, ErrorResponse{Error: err.Error()}, http.StatusNotFound)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}
