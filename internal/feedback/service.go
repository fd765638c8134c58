package feedback

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/mailer"
	"backend/internal/metrics"
	"backend/internal/models"
)

// Service scans closed sales for completed trips and mails a feedback
// request once per record.
type Service struct {
	db          *mongo.Database
	mail        mailer.Sender
	log         *zap.Logger
	metrics     *metrics.Metrics
	feedbackURL string
}

// Summary is the per-batch outcome count.
type Summary struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func NewService(db *mongo.Database, mail mailer.Sender, log *zap.Logger, m *metrics.Metrics, feedbackURL string) *Service {
	return &Service{
		db:          db,
		mail:        mail,
		log:         log,
		metrics:     m,
		feedbackURL: feedbackURL,
	}
}

// Schedule registers the daily batch on the given cron runner.
func (s *Service) Schedule(runner *cron.Cron, spec string) error {
	_, err := runner.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.log.Error("feedback batch failed", zap.Error(err))
		}
	})
	return err
}

// Run executes one batch synchronously. Candidates are fetched with the
// sent-flag filter and the trip-end cutoff is resolved in code, because
// historical documents mix date encodings the database cannot compare
// uniformly. Per-record failures do not abort the batch.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	today := startOfDay(time.Now())

	cursor, err := s.db.Collection("sales").Find(ctx, bson.M{
		"feedbackSent": bson.M{"$ne": true},
	})
	if err != nil {
		return Summary{}, err
	}
	defer cursor.Close(ctx)

	var summary Summary
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			s.log.Warn("feedback candidate decode failed", zap.Error(err))
			summary.Failed++
			continue
		}

		if !TripCompleted(doc, today) {
			continue
		}
		summary.Total++

		bookingRef, _ := doc["uniqueBookingId"].(string)

		email, ok := models.ResolveString(doc, models.TravelerEmailPaths)
		if !ok {
			s.log.Warn("no traveler email resolvable, skipping",
				zap.String("bookingId", bookingRef))
			summary.Skipped++
			continue
		}

		if err := s.sendOne(ctx, doc, bookingRef, email); err != nil {
			s.log.Error("feedback email failed",
				zap.String("bookingId", bookingRef),
				zap.Error(err))
			if s.metrics != nil {
				s.metrics.FeedbackEmailsFailed.Inc()
			}
			summary.Failed++
			continue
		}
		if s.metrics != nil {
			s.metrics.FeedbackEmailsSent.Inc()
		}
		summary.Sent++
	}
	if err := cursor.Err(); err != nil {
		return summary, err
	}

	s.log.Info("feedback batch finished",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *Service) sendOne(ctx context.Context, doc bson.M, bookingRef, email string) error {
	trip := mailer.TripSummary{
		Destination: resolveOrEmpty(doc, models.DestinationPaths),
		ClientName:  resolveOrEmpty(doc, models.TravelerNamePaths),
	}
	if end, ok := models.ResolveDate(doc, models.TripEndPaths); ok {
		trip.Return = end.Format("2006-01-02")
	}

	subject, body := mailer.FeedbackEmail(trip, bookingRef, s.feedbackURL)
	if err := s.mail.Send(email, subject, body); err != nil {
		return err
	}

	// The flag write is a single-document update: a crash between send and
	// flag can duplicate one email, but an already-flagged record is never
	// re-sent.
	id, _ := doc["_id"].(primitive.ObjectID)
	_, err := s.db.Collection("sales").UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"feedbackSent":   true,
			"feedbackSentAt": time.Now(),
		},
	})
	return err
}

// TripCompleted reports whether the document's resolvable trip-end date is
// strictly before the given day. Unresolvable dates never qualify.
func TripCompleted(doc bson.M, today time.Time) bool {
	end, ok := models.ResolveDate(doc, models.TripEndPaths)
	if !ok {
		return false
	}
	return end.Before(today)
}

func resolveOrEmpty(doc bson.M, paths [][]string) string {
	value, _ := models.ResolveString(doc, paths)
	return value
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
