package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/roomly/backend/api/handler"
	"github.com/roomly/backend/internal/config"
	"github.com/roomly/backend/internal/infrastructure/feed"
	"github.com/roomly/backend/internal/infrastructure/monitor"
	pgInfra "github.com/roomly/backend/internal/infrastructure/postgres"
	redisInfra "github.com/roomly/backend/internal/infrastructure/redis"
	"github.com/roomly/backend/internal/middleware"
	"github.com/roomly/backend/internal/router"
	"github.com/roomly/backend/internal/services/changefeed"
	"github.com/roomly/backend/internal/services/lifecycle"
	"github.com/roomly/backend/pkg/httpcontext"
	"github.com/roomly/backend/pkg/logger"
	"github.com/roomly/backend/repository/postgres"
	redisRepo "github.com/roomly/backend/repository/redis"
	authUC "github.com/roomly/backend/usecase/auth"
	boardUC "github.com/roomly/backend/usecase/board"
	membershipUC "github.com/roomly/backend/usecase/membership"
	profileUC "github.com/roomly/backend/usecase/profile"
	ratingUC "github.com/roomly/backend/usecase/rating"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	feedStore, err := feed.Open(cfg.Feed.Path, "events")
	if err != nil {
		zapLogger.Fatal("failed to open feed store", zap.Error(err))
	}
	manager.Register("feed", func(ctx context.Context) error {
		return feedStore.Close()
	})

	mon := monitor.New(pool, redisClient, feedStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	feedService := changefeed.New(feedStore, redisClient, zapLogger, changefeed.Config{
		Retention:     cfg.Feed.Retention,
		PruneInterval: cfg.Feed.PruneInterval,
	})
	feedService.Start()
	manager.Register("changefeed", func(ctx context.Context) error {
		feedService.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	apartmentRepo := postgres.NewApartmentRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
	})
	membershipUseCase := membershipUC.New(apartmentRepo, userRepo, feedService, zapLogger, membershipUC.Config{
		Capacity:    cfg.Apartment.Capacity,
		JoinRetries: cfg.Apartment.JoinRetries,
		CodeRetries: cfg.Apartment.CodeRetries,
	})
	boardUseCase := boardUC.New(apartmentRepo, taskRepo, expenseRepo, feedService, zapLogger)
	ratingUseCase := ratingUC.New(ratingRepo, userRepo, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:   apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Apartment: apiHandler.NewApartmentHandler(membershipUseCase, ctxAdapter, zapLogger),
		Board:     apiHandler.NewBoardHandler(boardUseCase, ctxAdapter, zapLogger),
		Rating:    apiHandler.NewRatingHandler(ratingUseCase, ctxAdapter, zapLogger),
		Events:    apiHandler.NewEventsHandler(feedService, membershipUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
