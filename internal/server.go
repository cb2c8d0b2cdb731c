package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymvariations/internal/auth"
	"github.com/2beens/gymvariations/internal/cache"
	"github.com/2beens/gymvariations/internal/config"
	"github.com/2beens/gymvariations/internal/db"
	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/gymstats/variations"
	"github.com/2beens/gymvariations/internal/gymstats/workouts"
	"github.com/2beens/gymvariations/internal/middleware"
	"github.com/2beens/gymvariations/internal/telemetry/metrics"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// exercise aggregates and whole sessions fit comfortably in 1MB
const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	authService *auth.Service
	rateLimiter middleware.RequestRateLimiter

	registry           *variations.Registry
	definitionsService *exercises.Service
	workoutsService    *workouts.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymvariations")
	if err != nil {
		return nil, err
	}

	registry, err := variations.NewDefaultRegistry(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("variation templates: %w", err)
	}
	log.Debugf("loaded %d variation templates", len(registry.Templates()))

	var collectors []prometheus.Collector
	var dbPool *pgxpool.Pool
	if cfg.Storage == config.StoragePostgres {
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, dbPool); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}

		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("gymvariations", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(time.Duration(cfg.SessionTTLHours)*time.Hour, rdb)
	go func() {
		ticker := time.NewTicker(8 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				authService.ScanAndClean(ctx)
			}
		}
	}()

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		authService: authService,
		rateLimiter: redis_rate.NewLimiter(rdb),
		registry:    registry,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	definitionsCache := cache.NewJSONCache(cfg.DefinitionsCacheSizeMB, cfg.DefinitionsCacheTTLSecs)
	if dbPool != nil {
		s.definitionsService = exercises.NewService(exercises.NewRepo(dbPool), registry, definitionsCache, metricsManager)
		s.workoutsService = workouts.NewService(workouts.NewRepo(dbPool), s.definitionsService, registry, metricsManager)
	} else {
		log.Warnln("using in-memory storage, nothing will be persisted")
		s.definitionsService = exercises.NewService(exercises.NewMemoryRepo(), registry, definitionsCache, metricsManager)
		s.workoutsService = workouts.NewService(workouts.NewMemoryRepo(), s.definitionsService, registry, metricsManager)
	}

	if cfg.SeedSystemExercises {
		created, err := exercises.SeedSystemDefinitions(ctx, s.definitionsService)
		if err != nil {
			return nil, fmt.Errorf("seed system exercises: %w", err)
		}
		log.Infof("system exercises seeded, %d created", created)
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymvariations-router"))

	writeLimit := middleware.RateLimit(s.rateLimiter, s.metricsManager, "exercises-write", s.config.WriteRateLimitMin)

	templatesHandler := variations.NewHandler(s.registry)
	r.HandleFunc("/variations/templates", templatesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	r.HandleFunc("/variations/templates/{id}", templatesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")

	exercisesHandler := exercises.NewHandler(s.definitionsService, s.registry)
	r.HandleFunc("/exercises", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.Handle("/exercises", writeLimit(http.HandlerFunc(exercisesHandler.HandleCreate))).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	r.Handle("/exercises/{id}", writeLimit(http.HandlerFunc(exercisesHandler.HandleReplace))).Methods("PUT", "OPTIONS").Name("replace-exercise")
	r.HandleFunc("/exercises/{id}/targeting", exercisesHandler.HandleTargeting).Methods("GET", "OPTIONS").Name("exercise-targeting")

	workoutsHandler := workouts.NewHandler(s.workoutsService)
	r.HandleFunc("/workouts/entries", workoutsHandler.HandleRecordEntry).Methods("POST", "OPTIONS").Name("new-entry")
	r.HandleFunc("/workouts/entries/{id}/targeting", workoutsHandler.HandleEntryTargeting).Methods("GET", "OPTIONS").Name("entry-targeting")
	r.HandleFunc("/workouts/sessions", workoutsHandler.HandleRecordSession).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/workouts/sessions", workoutsHandler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/workouts/meta", workoutsHandler.HandleExerciseMeta).Methods("GET", "OPTIONS").Name("exercise-meta")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponse(w, "not found", http.StatusNotFound)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler(s.promRegistry))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
