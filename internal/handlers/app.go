package handlers

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/audit"
	"backend/internal/feedback"
	"backend/internal/flightapi"
	"backend/internal/mailer"
	"backend/internal/metrics"
)

// App is the application context built once in main and handed to every
// handler; there is no package-level state.
type App struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Audit    *audit.Recorder
	Metrics  *metrics.Metrics
	Mailer   mailer.Sender
	Feedback *feedback.Service
	Flights  *flightapi.Client

	JWTSecret string
	TokenTTL  time.Duration
	ClientURL string
}
