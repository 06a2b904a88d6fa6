package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/hunter/api/handler"
	"github.com/fastygo/hunter/internal/config"
	"github.com/fastygo/hunter/internal/infrastructure/buffer"
	"github.com/fastygo/hunter/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/hunter/internal/infrastructure/redis"
	"github.com/fastygo/hunter/internal/middleware"
	"github.com/fastygo/hunter/internal/router"
	"github.com/fastygo/hunter/internal/services"
	"github.com/fastygo/hunter/internal/services/lifecycle"
	"github.com/fastygo/hunter/internal/storage"
	"github.com/fastygo/hunter/pkg/httpcontext"
	"github.com/fastygo/hunter/pkg/logger"
	"github.com/fastygo/hunter/repository"
	redisRepo "github.com/fastygo/hunter/repository/redis"
	"github.com/fastygo/hunter/usecase"
	leaderboardUC "github.com/fastygo/hunter/usecase/leaderboard"
	profileUC "github.com/fastygo/hunter/usecase/profile"
	progressionUC "github.com/fastygo/hunter/usecase/progression"
	taskUC "github.com/fastygo/hunter/usecase/task"
	workoutUC "github.com/fastygo/hunter/usecase/workout"
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

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.Listen(context.Background())
	defer stop()

	stores, err := storage.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store connection failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	manager.Register("store", func(ctx context.Context) error {
		return stores.Close()
	})

	checks := []monitor.Check{{Name: stores.Driver, Probe: stores.Ping}}

	var leaderboardCache repository.LeaderboardCache
	if cfg.Redis.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		leaderboardCache = redisRepo.NewLeaderboardCache(redisClient, cfg.Progression.LeaderboardTTL)
		checks = append(checks, monitor.Check{
			Name:     "redis",
			Probe:    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			Optional: true,
		})
	}

	// every writer below goes through these so the cached boards stay fresh
	profiles := leaderboardUC.InvalidatingProfiles(stores.Profiles, leaderboardCache, zapLogger)
	replayedProgress := leaderboardUC.InvalidatingProgress(stores.Progress, leaderboardCache, zapLogger)

	var (
		bufferStore *buffer.Store
		sizer       monitor.BufferSizer
	)
	if cfg.Buffer.Enabled {
		bufferStore, err = buffer.Open(cfg.Buffer.Path, buffer.Options{MaxSize: cfg.Buffer.MaxSize})
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.Register("buffer", func(ctx context.Context) error {
			return bufferStore.Close()
		})
		sizer = bufferStore
	}

	mon := monitor.New(checks, sizer, 10*time.Second, zapLogger)
	mon.Refresh(appCtx)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	var opBuffer usecase.OperationBuffer
	if bufferStore != nil {
		bufferProcessor := services.NewBufferProcessor(
			bufferStore,
			mon,
			services.ReplayStores{
				Profiles: profiles,
				Tasks:    stores.Tasks,
				Progress: replayedProgress,
			},
			zapLogger,
			services.ProcessorConfig{
				Interval:   cfg.Buffer.SyncInterval,
				BatchSize:  cfg.Buffer.BatchSize,
				MaxRetries: cfg.Buffer.MaxRetry,
				Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
			},
		)
		bufferProcessor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			bufferProcessor.Stop(ctx)
			return nil
		})
		opBuffer = services.NewBufferBridge(bufferProcessor)
	}

	clock := usecase.SystemClock(cfg.Progression.Location)

	progressionUseCase := progressionUC.New(progressionUC.Stores{
		Profiles:    profiles,
		Tasks:       stores.Tasks,
		Progress:    stores.Progress,
		Leaderboard: leaderboardCache,
	}, opBuffer, clock, zapLogger)
	taskUseCase := taskUC.New(stores.Tasks, profiles, opBuffer, clock, zapLogger)
	workoutUseCase := workoutUC.New(stores.Workouts, zapLogger)
	profileUseCase := profileUC.New(profileUC.Stores{
		Profiles: profiles,
		Tasks:    stores.Tasks,
		Workouts: stores.Workouts,
		Events:   stores.Events,
	}, opBuffer, clock, zapLogger)
	leaderboardUseCase := leaderboardUC.New(profiles, leaderboardCache, cfg.Progression.LeaderboardLimit, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Profile:     apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:        apiHandler.NewTaskHandler(taskUseCase, progressionUseCase, ctxAdapter, zapLogger),
		Workout:     apiHandler.NewWorkoutHandler(workoutUseCase, progressionUseCase, ctxAdapter, zapLogger),
		Leaderboard: apiHandler.NewLeaderboardHandler(leaderboardUseCase, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
			zap.String("timezone", cfg.Progression.Location.String()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
