//go:build e2e_test || all_tests

package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/gymvariations/internal"
	"github.com/2beens/gymvariations/internal/auth"
	"github.com/2beens/gymvariations/internal/config"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	serverPort = 9000
	serverHost = "127.0.0.1"
	testDBName = "gymvariations"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type IntegrationTestSuite struct {
	suite.Suite

	DB          *sql.DB
	dockerPool  *dockertest.Pool
	server      *internal.Server
	redisClient *redis.Client
	authService *auth.Service
	httpClient  *http.Client
	teardown    []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

// runs before all tests are executed
func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}
	fmt.Println("dockertest pool ping successful")

	redisPort, err := s.redisSetup(ctx)
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}
	fmt.Println("redis setup successful")

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}
	fmt.Println("postgres setup successful")

	cfg := getTestConfig(redisPort, pgPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}
	fmt.Println("server created")

	s.server.Serve(cfg.Host, cfg.Port)
	if err := s.dockerPool.Retry(func() error {
		conn, err := net.Dial("tcp", net.JoinHostPort(serverHost, fmt.Sprint(serverPort)))
		if err != nil {
			return err
		}
		return conn.Close()
	}); err != nil {
		s.cleanup()
		log.Fatalf("server not listening: %s", err)
	}
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			fmt.Printf(" --> test suite redis close error: %s\n", err)
		}
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	fmt.Println(" --> test suite server shut down")
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Environment:             "test",
		Host:                    serverHost,
		Port:                    serverPort,
		LogLevel:                "debug",
		Storage:                 config.StoragePostgres,
		PostgresHost:            "localhost",
		PostgresPort:            postgresPort,
		PostgresDBName:          testDBName,
		RunMigrations:           true,
		RedisHost:               "localhost",
		RedisPort:               redisPort,
		SessionTTLHours:         1,
		WriteRateLimitMin:       1000,
		DefinitionsCacheSizeMB:  1,
		DefinitionsCacheTTLSecs: 30,
		SeedSystemExercises:     true,
		PrometheusMetricsHost:   "localhost",
		PrometheusMetricsPort:   "9002",
	}
}

func (s *IntegrationTestSuite) redisSetup(ctx context.Context) (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	s.redisClient = redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	if err := s.dockerPool.Retry(func() error {
		return s.redisClient.Ping(ctx).Err()
	}); err != nil {
		return "", fmt.Errorf("connect to redis: %w", err)
	}
	s.authService = auth.NewAuthService(time.Hour, s.redisClient)

	return redisPort, nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://postgres@localhost:%s/%s?sslmode=disable",
		pgPort, testDBName,
	)

	if err := s.dockerPool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return err
		}
		s.DB = db
		return nil
	}); err != nil {
		return "", fmt.Errorf("connect to db: %w", err)
	}

	return pgPort, nil
}
