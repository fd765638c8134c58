package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/metrics"
	"backend/internal/scope"
)

// Entry is one audit record to append.
type Entry struct {
	OrgID      primitive.ObjectID
	ActorID    string
	ActorName  string
	Email      string
	Action     string
	TargetType string
	TargetID   string
	IP         string
	UserAgent  string
	Meta       bson.M
}

// Recorder appends audit entries. Writes never fail the parent operation:
// errors are logged and counted, and the returned error exists so call
// sites can ignore it deliberately.
type Recorder struct {
	collection *mongo.Collection
	log        *zap.Logger
	metrics    *metrics.Metrics
}

func NewRecorder(db *mongo.Database, log *zap.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{
		collection: db.Collection("audit_logs"),
		log:        log,
		metrics:    m,
	}
}

// Record appends one entry with a server timestamp.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	doc := bson.M{
		"orgId":     entry.OrgID,
		"actorId":   entry.ActorID,
		"action":    entry.Action,
		"createdAt": time.Now(),
	}
	if entry.ActorName != "" {
		doc["actorName"] = entry.ActorName
	}
	if entry.Email != "" {
		doc["email"] = entry.Email
	}
	if entry.TargetType != "" {
		doc["targetType"] = entry.TargetType
	}
	if entry.TargetID != "" {
		doc["targetId"] = entry.TargetID
	}
	if entry.IP != "" {
		doc["ip"] = entry.IP
	}
	if entry.UserAgent != "" {
		doc["userAgent"] = entry.UserAgent
	}
	if len(entry.Meta) > 0 {
		doc["meta"] = entry.Meta
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if _, err := r.collection.InsertOne(writeCtx, doc); err != nil {
		r.log.Error("audit log write failed",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		if r.metrics != nil {
			r.metrics.AuditWriteFailures.Inc()
		}
		return err
	}
	return nil
}

// FromCaller pre-fills the actor fields of an entry.
func FromCaller(caller scope.Caller, action, targetType, targetID string) Entry {
	return Entry{
		OrgID:      caller.OrganisationID,
		ActorID:    caller.ID.Hex(),
		ActorName:  caller.Name,
		Email:      caller.Email,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
}
