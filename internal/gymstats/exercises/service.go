package exercises

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/2beens/gymvariations/internal/gymstats/variations"
	"github.com/2beens/gymvariations/internal/telemetry/metrics"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=exercises_test

type ListParams struct {
	Owner         string
	IncludeSystem bool
	Category      string
}

type definitionsRepo interface {
	Get(ctx context.Context, id string) (*Definition, error)
	List(ctx context.Context, params ListParams) ([]Definition, error)
	Create(ctx context.Context, def *Definition) error
	Replace(ctx context.Context, def *Definition) error
}

type definitionsCache interface {
	Get(key string, dst any) bool
	Set(key string, v any) error
	Delete(key string)
}

type Service struct {
	repo     definitionsRepo
	registry *variations.Registry
	cache    definitionsCache
	metrics  *metrics.Manager
	now      func() time.Time

	loads singleflight.Group
	// generations counts invalidations per definition id. A load only
	// populates the cache if no invalidation happened since it started.
	generationsMu sync.Mutex
	generations   map[string]uint64
}

func NewService(
	repo definitionsRepo,
	registry *variations.Registry,
	cache definitionsCache,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		cache:    cache,
		metrics:  metricsManager,
		now:      time.Now,

		generations: make(map[string]uint64),
	}
}

func (s *Service) Registry() *variations.Registry {
	return s.registry
}

// CreateDefinition validates req and persists the whole aggregate atomically.
func (s *Service) CreateDefinition(ctx context.Context, owner string, req CreateRequest) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		s.countWrite("create", err)
	}()
	span.SetAttributes(attribute.String("owner", owner))

	req.applyDefaults()
	if err := req.validate(owner, s.registry); err != nil {
		s.countRejection(err)
		return nil, err
	}

	now := s.now()
	def := req.toDefinition(uuid.NewString(), owner, now)
	def.CreatedAt = now

	if err := s.repo.Create(ctx, def); err != nil {
		return nil, err
	}
	s.invalidate(def.ID)

	log.Debugf("exercise definition created: owner=%s key=%s id=%s", owner, def.Key, def.ID)
	return def, nil
}

// ReplaceDefinition re-validates req and swaps the stored aggregate for it.
// Key and category cannot change. Only the owner of a definition may replace it.
func (s *Service) ReplaceDefinition(ctx context.Context, owner, id string, req CreateRequest) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.exercises.replace")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		s.countWrite("replace", err)
	}()
	span.SetAttributes(
		attribute.String("owner", owner),
		attribute.String("id", id),
	)

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Owner != owner {
		return nil, ErrExerciseNotFound
	}

	req.applyDefaults()
	if err := req.validate(owner, s.registry); err != nil {
		s.countRejection(err)
		return nil, err
	}
	if req.Key != existing.Key {
		err := newValidationError("key", "", "", "key cannot be changed")
		s.countRejection(err)
		return nil, err
	}
	if req.Category != existing.Category {
		err := newValidationError("category", "", "", "category cannot be changed")
		s.countRejection(err)
		return nil, err
	}

	def := req.toDefinition(existing.ID, owner, s.now())
	def.CreatedAt = existing.CreatedAt

	if err := s.repo.Replace(ctx, def); err != nil {
		return nil, err
	}
	s.invalidate(def.ID)

	log.Debugf("exercise definition replaced: owner=%s key=%s id=%s", owner, def.Key, def.ID)
	return def, nil
}

// GetDefinition returns the aggregate if it is visible to owner.
func (s *Service) GetDefinition(ctx context.Context, owner, id string) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	var def *Definition
	var cached Definition
	if s.cache.Get(definitionCacheKey(id), &cached) {
		s.metrics.CounterDefinitionCache.WithLabelValues("hit").Inc()
		def = &cached
	} else {
		s.metrics.CounterDefinitionCache.WithLabelValues("miss").Inc()
		def, err = s.load(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	if !def.VisibleTo(owner) {
		return nil, ErrExerciseNotFound
	}
	return def, nil
}

// load reads the definition from the repo and caches it. Concurrent misses of
// the same generation share one repo read. A load that overlaps a write
// returns what it read but leaves the cache alone.
func (s *Service) load(ctx context.Context, id string) (*Definition, error) {
	generation := s.generation(id)
	v, err, _ := s.loads.Do(id+"@"+strconv.FormatUint(generation, 10), func() (any, error) {
		def, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		s.generationsMu.Lock()
		defer s.generationsMu.Unlock()
		if s.generations[id] != generation {
			log.Debugf("exercise definition [%s] changed while loading, not caching", id)
			return def, nil
		}
		if err := s.cache.Set(definitionCacheKey(id), def); err != nil {
			log.Errorf("cache exercise definition [%s]: %s", id, err)
		}
		return def, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Definition), nil
}

func (s *Service) generation(id string) uint64 {
	s.generationsMu.Lock()
	defer s.generationsMu.Unlock()
	return s.generations[id]
}

// invalidate must run after the write is committed.
func (s *Service) invalidate(id string) {
	s.generationsMu.Lock()
	defer s.generationsMu.Unlock()
	s.generations[id]++
	s.cache.Delete(definitionCacheKey(id))
}

// ListDefinitions returns the system definitions and the ones owned by owner.
func (s *Service) ListDefinitions(ctx context.Context, owner, category string) (_ []Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if category != "" {
		span.SetAttributes(attribute.String("params.category", category))
		if !slices.Contains(Categories, category) {
			return nil, newValidationError("category", "", "", fmt.Sprintf("unknown category %q", category))
		}
	}

	return s.repo.List(ctx, ListParams{
		Owner:         owner,
		IncludeSystem: true,
		Category:      category,
	})
}

// ComputeTargeting loads the definition and runs the composition engine on it.
func (s *Service) ComputeTargeting(ctx context.Context, owner, id string, selection Selection) (_ MuscleWeights, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.exercises.targeting")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	def, err := s.GetDefinition(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	weights, err := ComputeTargeting(def, selection, s.registry)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	s.metrics.CounterTargetingComputed.Inc()
	return weights, nil
}

func (s *Service) countWrite(op string, err error) {
	result := "ok"
	var validationErr *ValidationError
	var conflictErr *ConflictError
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		result = "invalid"
	case errors.As(err, &conflictErr):
		result = "conflict"
	case errors.Is(err, ErrExerciseNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	s.metrics.CounterDefinitionWrites.WithLabelValues(op, result).Inc()
}

func (s *Service) countRejection(err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		s.metrics.CounterValidationRejections.WithLabelValues("exercises", validationErr.Field).Inc()
	}
}

func (req *CreateRequest) toDefinition(id, owner string, now time.Time) *Definition {
	def := &Definition{
		ID:              id,
		Owner:           owner,
		Key:             req.Key,
		Name:            req.Name,
		Category:        req.Category,
		RepMode:         req.RepMode,
		Targets:         req.Targets,
		Supports:        req.Supports,
		OptionOverrides: req.OptionOverrides,
		Effects:         req.Effects,
		UpdatedAt:       now,
	}
	return def.Clone()
}

func definitionCacheKey(id string) string {
	return "exercise-definition::" + id
}
