package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/telemetry/metrics"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type workoutsRepo interface {
	GetSession(ctx context.Context, id string) (*Session, error)
	CreateSession(ctx context.Context, session *Session) error
	AddEntry(ctx context.Context, entry *Entry) error
	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListSessions(ctx context.Context, params ListSessionsParams) ([]Session, error)
	ListHistory(ctx context.Context, owner string) ([]HistoryEntry, error)
}

type definitionsService interface {
	definitionReader
	ComputeTargeting(ctx context.Context, owner, id string, selection exercises.Selection) (exercises.MuscleWeights, error)
	ListDefinitions(ctx context.Context, owner, category string) ([]exercises.Definition, error)
}

type Service struct {
	repo        workoutsRepo
	definitions definitionsService
	validator   *Validator
	metrics     *metrics.Manager
	now         func() time.Time
}

func NewService(
	repo workoutsRepo,
	definitions definitionsService,
	registry exercises.OptionRegistry,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:        repo,
		definitions: definitions,
		validator:   NewValidator(definitions, registry),
		metrics:     metricsManager,
		now:         time.Now,
	}
}

// RecordEntry validates one entry and stores it, standalone or appended to a
// session of the same owner.
func (s *Service) RecordEntry(ctx context.Context, owner string, req RecordEntryRequest) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.entry.record")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if strings.TrimSpace(owner) == "" {
		return nil, s.reject(invalid("owner", "owner is required"))
	}

	req.normalize()
	req.SessionID = strings.TrimSpace(req.SessionID)
	if err := s.validateEntry(ctx, owner, &req.EntryPayload); err != nil {
		return nil, s.reject(err)
	}

	if req.SessionID != "" {
		session, err := s.repo.GetSession(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		if session.Owner != owner {
			return nil, ErrSessionNotFound
		}
	}

	entry := s.newEntry(owner, req.SessionID, req.EntryPayload)
	if err := s.repo.AddEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("add workout entry: %w", err)
	}
	s.metrics.CounterWorkoutEntries.Inc()

	log.Debugf("workout entry recorded: owner=%s exercise=%s id=%s", owner, entry.ExerciseID, entry.ID)
	return entry, nil
}

// RecordSession validates every entry first, then stores the session with all
// its entries in one go.
func (s *Service) RecordSession(ctx context.Context, owner string, req RecordSessionRequest) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.session.record")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("entries", len(req.Entries)))

	if strings.TrimSpace(owner) == "" {
		return nil, s.reject(invalid("owner", "owner is required"))
	}
	if err := req.validate(); err != nil {
		return nil, s.reject(err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Entries:   make([]Entry, 0, len(req.Entries)),
		CreatedAt: s.now(),
	}
	for i := range req.Entries {
		payload := req.Entries[i]
		payload.normalize()
		if err := s.validateEntry(ctx, owner, &payload); err != nil {
			return nil, s.reject(prefixField(fmt.Sprintf("entries[%d]", i), err))
		}
		session.Entries = append(session.Entries, *s.newEntry(owner, session.ID, payload))
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create workout session: %w", err)
	}
	s.metrics.CounterWorkoutEntries.Add(float64(len(session.Entries)))

	log.Debugf("workout session recorded: owner=%s date=%s entries=%d", owner, session.Date, len(session.Entries))
	return session, nil
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, params ListSessionsParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.session.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("params.from", params.From),
		attribute.String("params.to", params.To),
	)

	if err := params.validate(); err != nil {
		return nil, s.reject(err)
	}
	return s.repo.ListSessions(ctx, params)
}

// EntryTargeting computes targeting for a logged entry against the current
// definition of its exercise.
func (s *Service) EntryTargeting(ctx context.Context, owner, entryID string) (_ exercises.MuscleWeights, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.entry.targeting")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", entryID))

	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Owner != owner {
		return nil, ErrEntryNotFound
	}

	return s.definitions.ComputeTargeting(ctx, owner, entry.ExerciseID, entry.Variations)
}

func (s *Service) validateEntry(ctx context.Context, owner string, payload *EntryPayload) error {
	if payload.ExerciseID == "" {
		return invalid("exerciseId", "exercise id is required")
	}
	def, err := s.validator.Validate(ctx, owner, payload.ExerciseID, payload.Variations)
	if err != nil {
		return err
	}
	return payload.validatePerformance(def.Category)
}

func (s *Service) newEntry(owner, sessionID string, payload EntryPayload) *Entry {
	variations := make(exercises.Selection, len(payload.Variations))
	for templateID, optionKey := range payload.Variations {
		variations[templateID] = optionKey
	}
	var distance *float64
	if payload.Distance != nil {
		d := *payload.Distance
		distance = &d
	}
	return &Entry{
		ID:         uuid.NewString(),
		Owner:      owner,
		SessionID:  sessionID,
		ExerciseID: payload.ExerciseID,
		Variations: variations,
		Sets:       append([]Set{}, payload.Sets...),
		Notes:      payload.Notes,
		Distance:   distance,
		Unit:       payload.Unit,
		CreatedAt:  s.now(),
	}
}

func (s *Service) reject(err error) error {
	var validationErr *exercises.ValidationError
	if errors.As(err, &validationErr) {
		s.metrics.CounterValidationRejections.WithLabelValues("workouts", validationErr.Field).Inc()
	}
	return err
}

// prefixField scopes a validation error to one entry of a session.
func prefixField(prefix string, err error) error {
	var validationErr *exercises.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	scoped := *validationErr
	scoped.Field = prefix + "." + validationErr.Field
	return &scoped
}
