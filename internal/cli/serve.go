package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-platform/internal/answer"
	"quiz-platform/internal/auth"
	"quiz-platform/internal/cabinet"
	"quiz-platform/internal/config"
	"quiz-platform/internal/directory"
	"quiz-platform/internal/event"
	"quiz-platform/internal/server"
	"quiz-platform/pkg/cache"
	"quiz-platform/pkg/database"
	"quiz-platform/pkg/logger"
	"quiz-platform/pkg/monitoring"
	"quiz-platform/pkg/security"
	"quiz-platform/pkg/tracing"
	"quiz-platform/pkg/websocket"
)

// NewServeCmd builds the CLI subcommand to start the HTTP server.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	initLogger(cfg)
	defer logger.Sync()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quiz-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}
	monitoring.Register(nil)

	db, err := database.NewPostgresDB(databaseConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StatsTTL)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Log.Warn("Redis unavailable, question stats will be read from the database", zap.Error(err))
	}

	publisher, err := event.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return fmt.Errorf("init event publisher: %w", err)
	}
	defer publisher.Close()

	runCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	wsHub := websocket.NewHub(func(token string) (string, error) {
		principal, err := auth.ParseToken(token, cfg.JWT.Secret)
		if err != nil {
			return "", err
		}
		return principal.UserID, nil
	}, cfg.Server.AllowedOrigins)
	go wsHub.Run(runCtx)

	limiter := security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	go limiter.Cleanup(runCtx.Done())

	dir := directory.NewRepository(db)
	answerService := answer.NewService(answer.NewRepository(db), dir, dir, wsHub, publisher, cfg.Answers.StrictHistory)
	cabinetService := cabinet.NewService(dir, answerService, redisCache, cfg.Users.DefaultImage)

	handler := server.NewRouter(server.Deps{
		Answers:        answer.NewHandler(answerService),
		Cabinet:        cabinet.NewHandler(cabinetService),
		Hub:            wsHub,
		SubmitLimiter:  limiter,
		JWTSecret:      cfg.JWT.Secret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Log.Info("Shutting down server")
	case <-ctx.Done():
		logger.Log.Info("Context canceled, shutting down server")
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Log.Info("Server shutdown gracefully")
	return nil
}
