package cli

import (
	"context"
	"fmt"

	"codemcq-service/internal/config"
	"codemcq-service/internal/infra/sqldb"
	"codemcq-service/internal/infra/sqldb/migrations"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	var dsn string
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		dsn = cfg.Postgres.URL
	case config.StorageSQLite:
		dsn = sqliteDSN(cfg.Storage.SQLitePath)
	default:
		return fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}

	db, err := sqldb.Open(ctx, cfg.Storage.Driver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	group, err := migrations.Run(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("no new migrations")
		return nil
	}
	log.WithField("group", group.String()).Info("migrations applied")
	return nil
}
