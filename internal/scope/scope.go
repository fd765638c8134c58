package scope

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// Caller is the authenticated identity extracted from the bearer token.
type Caller struct {
	ID             primitive.ObjectID
	Email          string
	Name           string
	Role           string
	AdminID        primitive.ObjectID
	OrganisationID primitive.ObjectID
}

// ListFilter derives the data-visibility filter for list/read queries.
// Admins see everything under their organisation; users see their own
// records. An absent or unknown role falls back to self-only.
func ListFilter(caller Caller) bson.M {
	switch caller.Role {
	case models.RoleAdmin:
		return bson.M{"organisationId": caller.OrganisationID}
	case models.RoleUser:
		return bson.M{"userId": caller.ID}
	default:
		return bson.M{"userId": caller.ID}
	}
}

// SharedListFilter is ListFilter plus shared visibility of records created
// by the caller's admin, for the endpoints that grant it.
func SharedListFilter(caller Caller) bson.M {
	if caller.Role != models.RoleUser {
		return ListFilter(caller)
	}
	return bson.M{"$or": []bson.M{
		{"userId": caller.ID},
		{"adminId": caller.AdminID},
	}}
}

// CanModify is the write-side check: a re-fetched record may be updated or
// deleted only by its owning user, or by an admin of its organisation.
func CanModify(caller Caller, own models.Ownership) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return own.OrganisationID == caller.OrganisationID
	case models.RoleUser:
		return own.UserID == caller.ID
	default:
		return false
	}
}

// EffectiveAdminID is the adminId stamped onto records the caller creates:
// admins own their records directly, sub-users inherit their admin.
func EffectiveAdminID(caller Caller) primitive.ObjectID {
	if caller.Role == models.RoleAdmin {
		return caller.ID
	}
	return caller.AdminID
}
