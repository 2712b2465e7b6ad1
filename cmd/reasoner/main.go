// Command reasoner runs the lesson-planning REST service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pedagogy-hub/reasoner/config"
	"github.com/pedagogy-hub/reasoner/internal/application/command"
	"github.com/pedagogy-hub/reasoner/internal/application/query"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/redis"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/store"
	httpserver "github.com/pedagogy-hub/reasoner/internal/interface/http"
	"github.com/pedagogy-hub/reasoner/pkg/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "reasoner",
	Short: "PEDAGOGY lesson-planning reasoner service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.App.Environment); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log := logger.New("main")

	// Datastore: PostgreSQL when reachable, in-memory mock otherwise.
	st, err := store.New(ctx, cfg.Database, logger.New("store"))
	if err != nil {
		return fmt.Errorf("init datastore: %w", err)
	}
	defer st.Close()

	// Cache is best-effort: a missing Redis just means direct reads.
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		cache, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, caching disabled")
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		metrics.MustRegister(registry)
	}
	metrics.SetDatabaseUp(st.Mode() == store.ModePostgres)
	if st.Mode() == store.ModePostgres {
		st.StartProbe(ctx, time.Minute, metrics.SetDatabaseUp)
	}

	advisor := llm.NewMockAdvisor()

	deps := httpserver.Dependencies{
		GetStudentContext: query.NewGetStudentContextHandler(
			st.Students, st.History, advisor, st.Interactions, cache, logger.New("query.context")),
		RecommendTemplate: query.NewRecommendTemplateHandler(
			st.Templates, advisor, st.Interactions, logger.New("query.recommend")),
		GetTemplate: query.NewGetTemplateHandler(
			st.Templates, advisor, st.Interactions, cache, logger.New("query.template")),
		ListTemplates:     query.NewListTemplatesHandler(st.Templates),
		GetStudentHistory: query.NewGetStudentHistoryHandler(st.Students, st.History),
		ProposeActivities: command.NewProposeActivitiesHandler(
			st.Activities, advisor, st.Interactions, logger.New("command.propose")),
		CreateLessonPlan: command.NewCreateLessonPlanHandler(
			st.Students, st.Templates, st.Activities, st.LessonPlans, logger.New("command.lessonplan")),
		GetLessonPlan: command.NewGetLessonPlanHandler(st.LessonPlans),
		Store:         st,
		Registry:      registry,
		Logger:        logger.New("http"),
	}

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	serverCfg.EnableCORS = cfg.Server.EnableCORS
	serverCfg.EnableMetrics = cfg.Metrics.Enabled
	serverCfg.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	serverCfg.Version = cfg.App.Version

	server := httpserver.NewServer(serverCfg, deps)

	log.Info().
		Str("address", serverCfg.Address()).
		Str("mode", string(st.Mode())).
		Str("environment", cfg.App.Environment).
		Msg("reasoner starting")

	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("reasoner stopped")
	return nil
}
