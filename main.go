package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"backend/internal/audit"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/feedback"
	"backend/internal/flightapi"
	"backend/internal/handlers"
	"backend/internal/logger"
	"backend/internal/mailer"
	"backend/internal/metrics"
	"backend/internal/middleware"
)

func main() {
	cfg := config.Load()

	zapLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("logger init failed:", err)
	}
	defer zapLog.Sync()

	if cfg.JWTSecret == "" {
		zapLog.Fatal("JWT_SECRET is required")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zapLog.Fatal("mongodb connection failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	if err := database.EnsureUserIndexes(db); err != nil {
		zapLog.Fatal("user indexes failed", zap.Error(err))
	}
	if err := database.EnsureOrganisationIndexes(db); err != nil {
		zapLog.Fatal("organisation indexes failed", zap.Error(err))
	}
	if err := database.EnsureBookingIndexes(db); err != nil {
		zapLog.Fatal("booking indexes failed", zap.Error(err))
	}
	if err := database.EnsureAuditLogIndexes(db); err != nil {
		zapLog.Fatal("audit log indexes failed", zap.Error(err))
	}

	m := metrics.New(cfg.MetricsPrefix)
	mail := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	feedbackSvc := feedback.NewService(db, mail, zapLog, m, cfg.FeedbackURL)

	app := &handlers.App{
		DB:        db,
		Log:       zapLog,
		Audit:     audit.NewRecorder(db, zapLog, m),
		Metrics:   m,
		Mailer:    mail,
		Feedback:  feedbackSvc,
		Flights:   flightapi.New(cfg.FlightAPIBaseURL, cfg.FlightAPIClientID, cfg.FlightAPIClientSecret),
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.AccessTokenTTL,
		ClientURL: cfg.ClientURL,
	}

	runner := cron.New()
	if err := feedbackSvc.Schedule(runner, cfg.FeedbackCron); err != nil {
		zapLog.Fatal("feedback schedule failed", zap.Error(err))
	}
	runner.Start()
	defer runner.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(middleware.Metrics(m))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	app.RegisterRoutes(router)

	zapLog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := router.Run(":" + cfg.Port); err != nil {
		zapLog.Fatal("server stopped", zap.Error(err))
	}
}
