package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maxviazov/user-directory-service/internal/app"
	"github.com/maxviazov/user-directory-service/internal/config"
	"github.com/maxviazov/user-directory-service/internal/graph"
	"github.com/maxviazov/user-directory-service/internal/handler"
	"github.com/maxviazov/user-directory-service/internal/logger"
	"github.com/maxviazov/user-directory-service/internal/repository/memory"
	"github.com/maxviazov/user-directory-service/internal/seed"
	"github.com/maxviazov/user-directory-service/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("❌ %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "user-directory-server",
		Short:         "Serve the user directory over GraphQL and REST",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if _, err := os.Stat(path); err != nil && !cmd.Flags().Changed("config") {
				path = "" // the default file is optional, an explicit one is not
			}
			return run(cmd.Context(), path)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	// Load application config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	appLogger.Info().Str("env", cfg.App.Env).Str("version", cfg.App.Version).Msg("✅ Config loaded successfully")

	store := memory.NewUserStore()
	if _, err := seed.Users(ctx, store, cfg.Directory.SeedCount, cfg.Directory.SeedValue, appLogger); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	users := service.NewUserService(store, appLogger)
	schema, err := graph.NewSchema(users, appLogger)
	if err != nil {
		return err
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestLogger(appLogger))
	handler.Register(engine, store, users, graph.NewHandler(schema))

	server := app.NewServer(cfg, engine, appLogger)
	appLogger.Info().Str("addr", server.Addr()).Int("users", store.Len()).Msg("🚀 Service started")
	if err := server.Run(ctx); err != nil {
		return err
	}
	appLogger.Info().Msg("👋 Service stopped")
	return nil
}
