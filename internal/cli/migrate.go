package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quiz-platform/internal/config"
	"quiz-platform/pkg/database"
	"quiz-platform/pkg/logger"
)

// NewMigrateCmd creates or updates the database schema.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(*configPath)
		},
	}
}

func runMigrations(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)
	defer logger.Sync()

	db, err := database.NewPostgresDB(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info("Migrations applied")
	return nil
}

func databaseConfig(cfg *config.Config) *database.Config {
	return &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		Debug:    cfg.Server.Mode == "debug",
	}
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		File:  cfg.Log.File,
		Level: cfg.Log.Level,
		Mode:  cfg.Server.Mode,
	})
}
