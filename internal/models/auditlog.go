package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog is an append-only record of a mutating action, scoped by
// organisation. Entries are never updated; the only delete path is the
// admin-only bulk purge.
type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID      primitive.ObjectID `bson:"orgId" json:"orgId"`
	ActorID    string             `bson:"actorId" json:"actorId"`
	ActorName  string             `bson:"actorName,omitempty" json:"actorName,omitempty"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Action     string             `bson:"action" json:"action"` // e.g. "lead.convertToSale"
	TargetType string             `bson:"targetType,omitempty" json:"targetType,omitempty"`
	TargetID   string             `bson:"targetId,omitempty" json:"targetId,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Meta       bson.M             `bson:"meta,omitempty" json:"meta,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
