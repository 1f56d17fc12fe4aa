package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-billing-api/api/swagger"
	"github.com/noah-isme/school-billing-api/internal/handler"
	"github.com/noah-isme/school-billing-api/internal/middleware"
	"github.com/noah-isme/school-billing-api/internal/repository"
	"github.com/noah-isme/school-billing-api/internal/service"
	"github.com/noah-isme/school-billing-api/pkg/config"
	"github.com/noah-isme/school-billing-api/pkg/database"
	"github.com/noah-isme/school-billing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-billing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-billing-api/pkg/middleware/requestid"
)

// @title School Billing API
// @version 1.0.0
// @description Schools, students, invoices and payments with derived balances.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to apply schema", zap.Error(err))
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()
	queryCfg := service.QueryConfig{
		StrictFilters: cfg.Query.StrictFilters,
		BatchSize:     cfg.Query.AggregateBatchSize,
	}

	studentRepo := repository.NewStudentRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	schoolSvc := service.NewSchoolService(schoolRepo, studentRepo, membershipRepo, invoiceRepo, validate, metricsSvc, logr, queryCfg)
	studentSvc := service.NewStudentService(studentRepo, schoolRepo, membershipRepo, invoiceRepo, paymentRepo, validate, metricsSvc, logr, queryCfg)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, validate, logr)

	paging := handler.Paging{DefaultSize: cfg.Query.DefaultPageSize, MaxSize: cfg.Query.MaxPageSize}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Router{
		Schools:  handler.NewSchoolHandler(schoolSvc, paging),
		Students: handler.NewStudentHandler(studentSvc, paging),
		Invoices: handler.NewInvoiceHandler(invoiceSvc, paymentSvc, paging),
	}.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("driver", db.DriverName()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
