package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking documents are schemaless beyond the fields below: the nested
// traveler/guest/itinerary payload is stored as-is, so handlers work with
// bson.M and decode only the ownership envelope when they need to authorize.
type Ownership struct {
	UserID         primitive.ObjectID `bson:"userId"`
	AdminID        primitive.ObjectID `bson:"adminId"`
	OrganisationID primitive.ObjectID `bson:"organisationId"`
}

// DecodeOwnership pulls the ownership envelope out of a raw document.
func DecodeOwnership(doc bson.M) Ownership {
	var own Ownership
	if v, ok := doc["userId"].(primitive.ObjectID); ok {
		own.UserID = v
	}
	if v, ok := doc["adminId"].(primitive.ObjectID); ok {
		own.AdminID = v
	}
	if v, ok := doc["organisationId"].(primitive.ObjectID); ok {
		own.OrganisationID = v
	}
	return own
}

// FinancialFields are the update keys whose presence converts a lead into a
// sale. Matching is by exact key or dotted-path suffix.
var FinancialFields = []string{"totalAmount", "paidAmount", "remainingAmount"}
