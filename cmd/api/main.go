package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"google.golang.org/api/option"

	"swapi/internal/adapter/api"
	"swapi/internal/adapter/api/handler"
	apimiddleware "swapi/internal/adapter/api/middleware"
	"swapi/internal/adapter/api/router"
	"swapi/internal/adapter/repository"
	"swapi/internal/infrastructure/kvstore"
	"swapi/internal/infrastructure/ratelimit"
	"swapi/internal/infrastructure/websocket"
	"swapi/internal/session"
	"swapi/internal/usecase"
	"swapi/pkg/config"
	"swapi/pkg/logger"
	"swapi/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}

	store := kvstore.New(backend,
		kvstore.WithNamespace(cfg.StorageNamespace),
		kvstore.WithCompression(cfg.StorageCompress),
	)
	defer store.Close()

	userRepo := repository.NewKVUserRepository(store)
	sessionRepo := repository.NewKVSessionRepository(store)
	publicationRepo := repository.NewKVPublicationRepository(store)
	chatRepo := repository.NewKVChatRepository(store)

	sess := session.New()

	authUseCase := usecase.NewAuthUseCase(userRepo, sessionRepo, sess)
	publicationUseCase := usecase.NewPublicationUseCase(publicationRepo, sess)
	chatUseCase := usecase.NewChatUseCase(chatRepo, sess)

	if cfg.SeedDemoData {
		seedUseCase := usecase.NewSeedUseCase(userRepo, publicationRepo, chatRepo)
		if err := seedUseCase.Seed(ctx); err != nil {
			logger.Error("Failed to seed demo data: %v", err)
		}
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	// Limits register and login attempts per client address.
	authLimiter := ratelimit.NewRateLimiter(cfg.AuthRateLimitRPM, cfg.AuthRateLimitRPM)
	authLimiter.StartCleanupRoutine(ctx, 10*time.Minute)

	handlers := handler.Setup(authUseCase, publicationUseCase, chatUseCase, store, cfg.StorageDriver, wsManager)
	stopFeed := handlers.WebSocket.Follow(sess, publicationUseCase, chatUseCase)
	defer stopFeed()

	// Session restore runs in the background; until it finishes the app
	// behaves as signed out.
	go func() {
		if err := authUseCase.Restore(ctx); err != nil {
			logger.Error("Failed to restore session: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	router.Setup(e, handlers, apimiddleware.NewAuthMiddleware(sess), authLimiter)

	go func() {
		logger.Info("Starting server on port %s (storage: %s)", cfg.ServerPort, cfg.StorageDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server: %v", err)
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (kvstore.Backend, error) {
	switch cfg.StorageDriver {
	case "memory", "":
		return kvstore.NewMemoryBackend(), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, err
		}
		return kvstore.NewRedisBackend(client), nil

	case "firestore":
		var opts []option.ClientOption
		switch {
		case cfg.FirebaseServiceAccountJSON != "":
			logger.Info("Using Firebase service account from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)))
		case cfg.FirebaseServiceAccountPath != "":
			if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
				return nil, fmt.Errorf("service account file: %w", err)
			}
			logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseServiceAccountPath))
		}

		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, err
		}
		return kvstore.NewFirestoreBackend(client), nil

	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(context.Background())
			return nil, err
		}
		return kvstore.NewMongoBackend(client.Database(cfg.MongoDatabase)), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
