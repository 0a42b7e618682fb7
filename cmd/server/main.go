package main

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/breaks/api/handler"
	"github.com/fastygo/breaks/api/view"
	"github.com/fastygo/breaks/internal/config"
	kafkaInfra "github.com/fastygo/breaks/internal/infrastructure/kafka"
	"github.com/fastygo/breaks/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/breaks/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/breaks/internal/infrastructure/redis"
	"github.com/fastygo/breaks/internal/middleware"
	"github.com/fastygo/breaks/internal/router"
	"github.com/fastygo/breaks/internal/services/lifecycle"
	"github.com/fastygo/breaks/pkg/httpcontext"
	"github.com/fastygo/breaks/pkg/logger"
	"github.com/fastygo/breaks/pkg/sessiontoken"
	"github.com/fastygo/breaks/repository"
	boltRepo "github.com/fastygo/breaks/repository/bolt"
	"github.com/fastygo/breaks/repository/postgres"
	redisRepo "github.com/fastygo/breaks/repository/redis"
	"github.com/fastygo/breaks/usecase"
	authUC "github.com/fastygo/breaks/usecase/auth"
	breaksUC "github.com/fastygo/breaks/usecase/breaks"
	videoUC "github.com/fastygo/breaks/usecase/video"
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

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	probes := []monitor.Probe{{Name: "postgresql", Check: pool.Ping}}

	var sessionRepo repository.SessionRepository
	switch cfg.Session.Store {
	case config.SessionStoreBolt:
		store, err := boltRepo.Open(cfg.Session.BoltPath, cfg.Session.TTL)
		if err != nil {
			zapLogger.Fatal("failed to open session store", zap.Error(err))
		}
		manager.Register("sessions", func(ctx context.Context) error {
			return store.Close()
		})
		probes = append(probes, monitor.Probe{Name: "sessions", Check: store.Ping})
		sessionRepo = store

		janitor := cron.New()
		if _, err := janitor.AddFunc("@hourly", func() {
			removed, err := store.Cleanup(time.Now())
			if err != nil {
				zapLogger.Warn("session cleanup failed", zap.Error(err))
				return
			}
			zapLogger.Debug("expired sessions removed", zap.Int("count", removed))
		}); err != nil {
			zapLogger.Fatal("failed to schedule session cleanup", zap.Error(err))
		}
		janitor.Start()
		manager.Register("session_janitor", func(ctx context.Context) error {
			<-janitor.Stop().Done()
			return nil
		})
	default:
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		probes = append(probes, monitor.Probe{Name: "sessions", Check: redisInfra.Ping(redisClient)})
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	}

	var events usecase.EventPublisher = usecase.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafkaInfra.NewProducer(cfg.Kafka)
		manager.Register("kafka", func(ctx context.Context) error {
			return producer.Close()
		})
		events = producer
		zapLogger.Info("break events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	mon := monitor.New(cfg.Monitor.Interval, zapLogger, probes...)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor failed to start", zap.Error(err))
	}
	manager.Register("monitor", mon.Stop)

	userRepo := postgres.NewUserRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	breakRepo := postgres.NewBreakRepository(pool)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.Session.TTL, zapLogger)
	breaksUseCase := breaksUC.New(activityRepo, breakRepo, events, zapLogger)
	videoUseCase := videoUC.New(videoUC.DefaultURLs)

	renderer, err := view.NewRenderer()
	if err != nil {
		zapLogger.Fatal("templates failed to parse", zap.Error(err))
	}

	signer := sessiontoken.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Page:  apiHandler.NewPageHandler(breaksUseCase, renderer, ctxAdapter, zapLogger),
		Break: apiHandler.NewBreakHandler(breaksUseCase, ctxAdapter, zapLogger),
		Video: apiHandler.NewVideoHandler(videoUseCase, ctxAdapter, zapLogger),
		Auth: apiHandler.NewAuthHandler(authUseCase, signer, renderer, apiHandler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		}, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(middleware.SessionAuthConfig{
		CookieName:   cfg.Session.CookieName,
		Signer:       signer,
		Sessions:     authUseCase,
		CookieSecure: cfg.Session.CookieSecure,
		Timeout:      cfg.Context.RequestTimeout,
		Logger:       zapLogger,
	})
	r := router.New(handlers, authMiddleware, router.Options{
		EnableMetrics: cfg.HTTP.EnableMetrics,
		EnablePprof:   cfg.HTTP.EnablePprof,
		Logger:        zapLogger,
	})

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("session_store", cfg.Session.Store))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()
	zapLogger.Info("shutting down", zap.Strings("components", manager.Components()))

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
