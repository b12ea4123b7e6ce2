package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/analyzer"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/cache"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/config"
	v1 "github.com/Jeevanbnj/glaucoma-ai-insights/internal/handler/v1"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/repository"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/auth"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/database"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/logger"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zlog.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("glaucoma")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("running migrations", zap.Error(err))
	}
	if err := database.Instrument(db, collector); err != nil {
		zlog.Fatal("instrumenting database", zap.Error(err))
	}

	tokenStore := cache.NewTokenStore(cfg.Redis)
	defer func() { _ = tokenStore.Close() }()
	if err := tokenStore.Ping(context.Background()); err != nil {
		zlog.Fatal("connecting to redis", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWT)
	auditSvc := service.NewAuditService(auditRepo, zlog, collector)
	authSvc := service.NewAuthService(userRepo, doctorRepo, jwtManager, tokenStore, auditSvc, zlog)
	doctorSvc := service.NewDoctorService(doctorRepo, patientRepo, predictionRepo, zlog)
	patientSvc := service.NewPatientService(patientRepo, auditSvc, collector, zlog)
	predictionSvc := service.NewPredictionService(predictionRepo, patientRepo, analyzer.New(), auditSvc, collector, zlog)

	router := v1.NewRouter(v1.RouterDeps{
		Config:            cfg,
		Log:               zlog,
		Metrics:           collector,
		JWTManager:        jwtManager,
		TokenStore:        tokenStore,
		AuthHandler:       v1.NewAuthHandler(authSvc),
		DoctorHandler:     v1.NewDoctorHandler(doctorSvc),
		PatientHandler:    v1.NewPatientHandler(patientSvc),
		PredictionHandler: v1.NewPredictionHandler(predictionSvc),
		InfoHandler:       v1.NewInfoHandler(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	auditSvc.Shutdown()
}
