package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/redmonkez12/taskboard/docs" // Swagger docs (generated)
	"github.com/redmonkez12/taskboard/internal/auth"
	"github.com/redmonkez12/taskboard/internal/config"
	"github.com/redmonkez12/taskboard/internal/database"
	httpServer "github.com/redmonkez12/taskboard/internal/http"
	"github.com/redmonkez12/taskboard/internal/logging"
	"github.com/redmonkez12/taskboard/internal/task"
	"github.com/redmonkez12/taskboard/internal/user"
)

// @title           Taskboard API
// @version         1.0
// @description     Task manager backend with bearer-token authentication and per-user task isolation.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3003
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

const startupTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Driver,
		"token_strategy", cfg.Auth.TokenStrategy,
	)

	// Initialize repositories
	userRepo, taskRepo, closeStorage, err := initStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage()

	// Initialize token service
	tokenService, err := initTokenService(cfg.Auth, cfg.Server.IsDevelopment(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize services
	authService := auth.NewService(
		userRepo,
		tokenService,
		initHasher(cfg.Auth),
		logger,
		cfg.Auth.TokenDuration,
	)
	taskService := task.NewService(taskRepo, userRepo)

	// Initialize router
	router := httpServer.NewRouter(
		cfg,
		auth.NewHandler(authService),
		task.NewHandler(taskService),
		auth.NewGuard(authService),
		logger,
	)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initStorage builds the repositories for the configured driver. The
// returned func releases any connections.
func initStorage(cfg *config.Config) (user.Repository, task.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return user.NewBunRepository(db), task.NewBunRepository(db), func() { db.Close() }, nil

	case config.StorageRedis:
		client, err := database.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return user.NewRedisRepository(client), task.NewRedisRepository(client), func() { client.Close() }, nil

	default:
		return user.NewMemoryRepository(), task.NewMemoryRepository(), func() {}, nil
	}
}

func initTokenService(cfg config.AuthConfig, isDevelopment bool, logger *logging.Logger) (auth.TokenService, error) {
	if cfg.TokenStrategy == config.TokenPaseto {
		return auth.NewPasetoService(cfg.PasetoKey)
	}

	secret := cfg.JWTSecret
	if len(secret) == 0 {
		if !isDevelopment {
			return nil, errors.New("JWT_SECRET is required")
		}
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
		secret = generated
	}

	return auth.NewJWTService(secret)
}

func initHasher(cfg config.AuthConfig) auth.PasswordHasher {
	if cfg.PasswordHasher == config.HasherArgon2id {
		return auth.Argon2Hasher{}
	}
	return auth.NewBcryptHasher(cfg.BcryptCost)
}
