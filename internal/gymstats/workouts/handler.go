package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymvariations/internal/auth"
	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type service interface {
	RecordEntry(ctx context.Context, owner string, req RecordEntryRequest) (*Entry, error)
	RecordSession(ctx context.Context, owner string, req RecordSessionRequest) (*Session, error)
	ListSessions(ctx context.Context, params ListSessionsParams) ([]Session, error)
	EntryTargeting(ctx context.Context, owner, entryID string) (exercises.MuscleWeights, error)
	ExerciseMeta(ctx context.Context, owner string) (*ExerciseMeta, error)
}

type RecordedResponse struct {
	ID string `json:"id"`
}

type EntryTargetingResponse struct {
	EntryID string                  `json:"entryId"`
	Weights exercises.MuscleWeights `json:"weights"`
}

type Handler struct {
	service service
}

func NewHandler(service service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleRecordEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.entry.record")
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

	var req RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("record workout entry, unmarshal json params: %s", err)
		http.Error(w, "record workout entry failed", http.StatusBadRequest)
		return
	}

	entry, err := handler.service.RecordEntry(ctx, owner, req)
	if err != nil {
		writeError(w, "record workout entry", err)
		return
	}

	log.Debugf("new workout entry recorded: %s", entry.ID)
	pkg.WriteJSONResponse(w, RecordedResponse{ID: entry.ID}, http.StatusCreated)
}

func (handler *Handler) HandleRecordSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.session.record")
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

	var req RecordSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("record workout session, unmarshal json params: %s", err)
		http.Error(w, "record workout session failed", http.StatusBadRequest)
		return
	}

	session, err := handler.service.RecordSession(ctx, owner, req)
	if err != nil {
		writeError(w, "record workout session", err)
		return
	}

	log.Debugf("new workout session recorded: %s, entries: %d", session.ID, len(session.Entries))
	pkg.WriteJSONResponse(w, RecordedResponse{ID: session.ID}, http.StatusCreated)
}

func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.session.list")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	sessions, err := handler.service.ListSessions(ctx, ListSessionsParams{
		Owner: owner,
		From:  r.URL.Query().Get("from"),
		To:    r.URL.Query().Get("to"),
	})
	if err != nil {
		writeError(w, "list workout sessions", err)
		return
	}

	pkg.WriteJSONResponse(w, sessions, http.StatusOK)
}

func (handler *Handler) HandleEntryTargeting(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.entry.targeting")
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

	weights, err := handler.service.EntryTargeting(ctx, owner, id)
	if err != nil {
		writeError(w, "workout entry targeting", err)
		return
	}

	pkg.WriteJSONResponse(w, EntryTargetingResponse{
		EntryID: id,
		Weights: weights,
	}, http.StatusOK)
}

func (handler *Handler) HandleExerciseMeta(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.meta")
	defer span.End()

	owner, ok := auth.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	meta, err := handler.service.ExerciseMeta(ctx, owner)
	if err != nil {
		writeError(w, "workout exercise meta", err)
		return
	}

	pkg.WriteJSONResponse(w, meta, http.StatusOK)
}

func writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrEntryNotFound) {
		pkg.WriteJSONResponse(w, exercises.ErrorResponse{Error: err.Error()}, http.StatusNotFound)
		return
	}
	exercises.WriteError(w, op, err)
}
