package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveStringPriorityOrder(t *testing.T) {
	// Both the wrapped and unwrapped shapes are present; the wrapped one
	// is newer and must win.
	doc := bson.M{
		"bookingType": bson.M{
			"flightBooking": bson.M{
				"passengerDetails": bson.M{"email": "wrapped@example.com"},
			},
		},
		"flightBooking": bson.M{
			"passengerDetails": bson.M{"email": "legacy@example.com"},
		},
	}

	email, ok := ResolveString(doc, TravelerEmailPaths)
	if !ok {
		t.Fatal("expected an email")
	}
	if email != "wrapped@example.com" {
		t.Fatalf("got %q", email)
	}
}

func TestResolveStringFallsThrough(t *testing.T) {
	doc := bson.M{
		"querySource": bson.M{
			"guestDetails": bson.M{"email": "  fallback@example.com  "},
		},
	}

	email, ok := ResolveString(doc, TravelerEmailPaths)
	if !ok || email != "fallback@example.com" {
		t.Fatalf("got %q ok=%v", email, ok)
	}
}

func TestResolveStringSkipsEmptyValues(t *testing.T) {
	doc := bson.M{
		"bookingType": bson.M{
			"flightBooking": bson.M{
				"passengerDetails": bson.M{"email": "   "},
			},
		},
		"hotelBooking": bson.M{
			"guestDetails": bson.M{"email": "guest@example.com"},
		},
	}

	email, ok := ResolveString(doc, TravelerEmailPaths)
	if !ok || email != "guest@example.com" {
		t.Fatalf("got %q ok=%v", email, ok)
	}
}

func TestResolveStringMissing(t *testing.T) {
	if _, ok := ResolveString(bson.M{"Status": "New"}, TravelerEmailPaths); ok {
		t.Fatal("expected no match")
	}
}

func TestResolveDateCoercions(t *testing.T) {
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value interface{}
	}{
		{"time.Time", want},
		{"bson datetime", primitive.NewDateTimeFromTime(want)},
		{"iso date string", "2025-03-15"},
		{"iso datetime string", "2025-03-15T10:30:00.000Z"},
	}

	for _, tc := range cases {
		doc := bson.M{
			"hotelDetails": bson.M{"checkOutDate": tc.value},
		}
		got, ok := ResolveDate(doc, TripEndPaths)
		if !ok {
			t.Fatalf("%s: expected a date", tc.name)
		}
		if got.Year() != 2025 || got.Month() != time.March || got.Day() != 15 {
			t.Fatalf("%s: got %v", tc.name, got)
		}
	}
}

func TestResolveDateRejectsGarbage(t *testing.T) {
	doc := bson.M{
		"flightDetails": bson.M{"returnDate": "soon"},
	}
	if _, ok := ResolveDate(doc, TripEndPaths); ok {
		t.Fatal("expected no date")
	}
}

func TestLookupPathHandlesPlainMaps(t *testing.T) {
	// JSON round-trips can produce map[string]interface{} instead of bson.M.
	doc := bson.M{
		"flightBooking": map[string]interface{}{
			"passengerDetails": map[string]interface{}{"email": "x@y.z"},
		},
	}

	value, ok := LookupPath(doc, []string{"flightBooking", "passengerDetails", "email"})
	if !ok || value != "x@y.z" {
		t.Fatalf("got %v ok=%v", value, ok)
	}
}

func TestDecodeOwnership(t *testing.T) {
	userID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()

	own := DecodeOwnership(bson.M{
		"userId":         userID,
		"adminId":        adminID,
		"organisationId": orgID,
	})

	if own.UserID != userID || own.AdminID != adminID || own.OrganisationID != orgID {
		t.Fatalf("got %+v", own)
	}

	empty := DecodeOwnership(bson.M{})
	if !empty.UserID.IsZero() || !empty.OrganisationID.IsZero() {
		t.Fatalf("expected zero ownership, got %+v", empty)
	}
}
