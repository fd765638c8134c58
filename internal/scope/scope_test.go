package scope

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestListFilterAdmin(t *testing.T) {
	orgID := primitive.NewObjectID()
	caller := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin, OrganisationID: orgID}

	filter := ListFilter(caller)
	if filter["organisationId"] != orgID {
		t.Fatalf("expected organisation filter, got %v", filter)
	}
}

func TestListFilterUser(t *testing.T) {
	caller := Caller{ID: primitive.NewObjectID(), Role: models.RoleUser}

	filter := ListFilter(caller)
	if filter["userId"] != caller.ID {
		t.Fatalf("expected self filter, got %v", filter)
	}
}

func TestListFilterUnknownRoleFallsBackToSelf(t *testing.T) {
	caller := Caller{ID: primitive.NewObjectID(), Role: "superadmin"}

	filter := ListFilter(caller)
	if filter["userId"] != caller.ID {
		t.Fatalf("expected self filter for unknown role, got %v", filter)
	}
}

func TestSharedListFilterUser(t *testing.T) {
	caller := Caller{
		ID:      primitive.NewObjectID(),
		Role:    models.RoleUser,
		AdminID: primitive.NewObjectID(),
	}

	filter := SharedListFilter(caller)
	branches, ok := filter["$or"].([]bson.M)
	if !ok || len(branches) != 2 {
		t.Fatalf("expected $or with two branches, got %v", filter)
	}
	if branches[0]["userId"] != caller.ID {
		t.Fatalf("expected own branch first, got %v", branches[0])
	}
	if branches[1]["adminId"] != caller.AdminID {
		t.Fatalf("expected admin branch second, got %v", branches[1])
	}
}

func TestSharedListFilterAdminIsOrgScoped(t *testing.T) {
	orgID := primitive.NewObjectID()
	caller := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin, OrganisationID: orgID}

	filter := SharedListFilter(caller)
	if filter["organisationId"] != orgID {
		t.Fatalf("expected org filter for admin, got %v", filter)
	}
}

func TestCanModify(t *testing.T) {
	orgID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	own := models.Ownership{
		UserID:         userID,
		AdminID:        primitive.NewObjectID(),
		OrganisationID: orgID,
	}

	admin := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin, OrganisationID: orgID}
	if !CanModify(admin, own) {
		t.Fatal("admin of the same organisation must be allowed")
	}

	otherAdmin := Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin, OrganisationID: primitive.NewObjectID()}
	if CanModify(otherAdmin, own) {
		t.Fatal("admin of a different organisation must be denied")
	}

	owner := Caller{ID: userID, Role: models.RoleUser}
	if !CanModify(owner, own) {
		t.Fatal("owning user must be allowed")
	}

	stranger := Caller{ID: primitive.NewObjectID(), Role: models.RoleUser, OrganisationID: orgID}
	if CanModify(stranger, own) {
		t.Fatal("non-owning user must be denied")
	}

	unknown := Caller{ID: userID, Role: "support"}
	if CanModify(unknown, own) {
		t.Fatal("unknown role must be denied")
	}
}

func TestEffectiveAdminID(t *testing.T) {
	adminID := primitive.NewObjectID()

	admin := Caller{ID: adminID, Role: models.RoleAdmin}
	if EffectiveAdminID(admin) != adminID {
		t.Fatal("admin records own themselves")
	}

	user := Caller{ID: primitive.NewObjectID(), Role: models.RoleUser, AdminID: adminID}
	if EffectiveAdminID(user) != adminID {
		t.Fatal("sub-user records belong to their admin")
	}
}
