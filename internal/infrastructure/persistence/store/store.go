// Package store selects the datastore backend at startup: PostgreSQL
// when reachable, the in-memory mock otherwise. The decision is made
// once; a background probe keeps health reporting and metrics honest
// but never flips a running process between backends.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/config"
	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/lessonplan"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/memory"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/postgres"
	"github.com/pedagogy-hub/reasoner/pkg/retry"
)

// Mode identifies the active backend.
type Mode string

const (
	ModePostgres Mode = "postgres"
	ModeMock     Mode = "mock"
)

// Store bundles the repositories of the selected backend.
type Store struct {
	mode Mode
	conn *postgres.Connection

	Students     student.Repository
	History      student.HistoryRepository
	Templates    template.Repository
	Activities   activity.Source
	LessonPlans  lessonplan.Repository
	Interactions llm.InteractionRepository
}

// PostgresConfig translates application settings into the connection
// configuration.
func PostgresConfig(cfg config.DatabaseConfig) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.Host = cfg.Host
	pc.Port = cfg.Port
	pc.Database = cfg.Name
	pc.User = cfg.User
	pc.Password = cfg.Password
	pc.SSLMode = cfg.SSLMode
	pc.MinConns = int32(cfg.MinConnections)
	pc.MaxConns = int32(cfg.MaxConnections)
	pc.ConnectTimeout = cfg.ConnectTimeout
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	return pc
}

// New selects and initializes the datastore. USE_MOCK_DB forces the
// mock; otherwise PostgreSQL is tried with bounded retries and the mock
// is the fallback. The returned Store never changes backend afterwards.
func New(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	if cfg.UseMock {
		log.Info().Msg("mock datastore forced by configuration")
		return newMock(), nil
	}

	pc := PostgresConfig(cfg)
	policy := retry.ConnectConfig()
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("database connection failed, retrying")
	}

	conn, err := retry.DoWithData(ctx, policy, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnection(ctx, pc)
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Msg("database unreachable, falling back to mock datastore")
		return newMock(), nil
	}

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Msg("connected to PostgreSQL")
	return newPostgres(conn), nil
}

func newPostgres(conn *postgres.Connection) *Store {
	return &Store{
		mode:         ModePostgres,
		conn:         conn,
		Students:     postgres.NewStudentRepository(conn),
		History:      postgres.NewHistoryRepository(conn),
		Templates:    postgres.NewTemplateRepository(conn),
		Activities:   postgres.NewActivityRepository(conn),
		LessonPlans:  postgres.NewLessonPlanRepository(conn),
		Interactions: postgres.NewInteractionRepository(conn),
	}
}

func newMock() *Store {
	return &Store{
		mode:         ModeMock,
		Students:     memory.NewSeededStudentRepository(),
		History:      memory.NewSeededHistoryRepository(),
		Templates:    memory.NewTemplateRepository(),
		Activities:   activity.NewCatalog(),
		LessonPlans:  memory.NewLessonPlanRepository(),
		Interactions: memory.NewInteractionRepository(),
	}
}

// NewMock returns a mock-backed store. Tests and the USE_MOCK_DB path
// use it directly.
func NewMock() *Store { return newMock() }

// Mode returns the active backend.
func (s *Store) Mode() Mode { return s.mode }

// Ping verifies the backend is alive. The mock always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	if s.mode == ModeMock {
		return nil
	}
	return s.conn.Ping(ctx)
}

// Health reports backend health. In mock mode only the healthy flag is
// meaningful.
func (s *Store) Health(ctx context.Context) (*postgres.HealthStatus, error) {
	if s.mode == ModeMock {
		return &postgres.HealthStatus{Healthy: true, CheckedAt: time.Now().UTC()}, nil
	}
	return s.conn.Health(ctx)
}

// Close releases backend resources.
func (s *Store) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

// StartProbe pings the backend at the given interval until ctx is
// cancelled, reporting each result to onStatus. It only observes; the
// backend selection never changes.
func (s *Store) StartProbe(ctx context.Context, interval time.Duration, onStatus func(healthy bool)) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := s.Ping(pingCtx)
				cancel()
				if onStatus != nil {
					onStatus(err == nil)
				}
			}
		}
	}()
}
