// Command pedagogy-db sets up the reasoner's PostgreSQL database:
// creation, migrations, connectivity tests, schema checks and resets.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pedagogy-hub/reasoner/config"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/postgres"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/store"
	"github.com/pedagogy-hub/reasoner/pkg/logger"
)

var (
	cfgPath   string
	fullSetup bool
	create    bool
	migrate   bool
	test      bool
	check     bool
	reset     bool
)

var rootCmd = &cobra.Command{
	Use:   "pedagogy-db",
	Short: "Database setup for the PEDAGOGY reasoner",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	rootCmd.Flags().BoolVar(&fullSetup, "full-setup", false, "Full setup: create database and run migrations")
	rootCmd.Flags().BoolVar(&create, "create", false, "Create database")
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "Run migrations")
	rootCmd.Flags().BoolVar(&test, "test", false, "Test database connection")
	rootCmd.Flags().BoolVar(&check, "check", false, "Check database tables")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "Reset database (WARNING: deletes all data)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if !fullSetup && !create && !migrate && !test && !check && !reset {
		return cmd.Help()
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.App.Environment); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log := logger.New("pedagogy-db")

	pc := store.PostgresConfig(cfg.Database)
	admin := postgres.NewAdmin(pc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info().
		Str("database", pc.Database).
		Str("host", pc.Host).
		Int("port", pc.Port).
		Msg("starting database setup")

	if reset {
		log.Warn().Msg("RESETTING DATABASE - ALL DATA WILL BE LOST")
		fmt.Print("Are you sure you want to reset the database? Type 'yes' to confirm: ")

		reader := bufio.NewReader(os.Stdin)
		confirm, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(confirm)) != "yes" {
			log.Info().Msg("database reset cancelled")
			return nil
		}
		if err := admin.ResetDatabase(ctx); err != nil {
			return fmt.Errorf("database reset failed: %w", err)
		}
		log.Info().Msg("database reset complete")
	}

	if create || fullSetup {
		created, err := admin.CreateDatabase(ctx)
		if err != nil {
			return fmt.Errorf("database creation failed: %w", err)
		}
		if created {
			log.Info().Str("database", pc.Database).Msg("database created")
		} else {
			log.Info().Str("database", pc.Database).Msg("database already exists")
		}
	}

	if migrate || fullSetup || reset {
		if err := runMigrations(ctx, pc, log); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}

	if test {
		version, err := admin.TestConnection(ctx)
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}
		log.Info().Str("version", version).Msg("connection test succeeded")
	}

	if check {
		existing, missing, err := admin.CheckTables(ctx)
		if err != nil {
			return fmt.Errorf("table check failed: %w", err)
		}
		log.Info().Strs("tables", existing).Msg("existing tables")
		if len(missing) > 0 {
			return fmt.Errorf("missing required tables: %s", strings.Join(missing, ", "))
		}
		log.Info().Msg("all required tables present")
	}

	log.Info().Msg("database setup completed successfully")
	return nil
}

func runMigrations(ctx context.Context, pc postgres.Config, log zerolog.Logger) error {
	conn, err := postgres.NewConnection(ctx, pc)
	if err != nil {
		return err
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		return err
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		return err
	}
	for _, m := range status {
		log.Info().
			Int("version", m.Version).
			Str("name", m.Name).
			Bool("applied", m.IsApplied).
			Msg("migration status")
	}
	return nil
}
