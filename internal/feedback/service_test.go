package feedback

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTripCompletedPastDate(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := bson.M{
		"hotelDetails": bson.M{"checkOutDate": "2025-05-20"},
	}

	if !TripCompleted(doc, today) {
		t.Fatal("trip ending before today must qualify")
	}
}

func TestTripCompletedFutureDate(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := bson.M{
		"flightDetails": bson.M{"returnDate": "2025-06-10"},
	}

	if TripCompleted(doc, today) {
		t.Fatal("future trip must not qualify")
	}
}

func TestTripCompletedSameDay(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := bson.M{
		"flightDetails": bson.M{"returnDate": "2025-06-01"},
	}

	if TripCompleted(doc, today) {
		t.Fatal("trip ending today must not qualify yet")
	}
}

func TestTripCompletedBSONDatetime(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := primitive.NewDateTimeFromTime(time.Date(2025, 5, 28, 14, 0, 0, 0, time.UTC))
	doc := bson.M{
		"bookingType": bson.M{
			"hotelBooking": bson.M{
				"hotelDetails": bson.M{"checkOutDate": end},
			},
		},
	}

	if !TripCompleted(doc, today) {
		t.Fatal("BSON datetime before today must qualify")
	}
}

func TestTripCompletedUnresolvable(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if TripCompleted(bson.M{"Status": "Closed"}, today) {
		t.Fatal("documents without a resolvable end date must never qualify")
	}
	if TripCompleted(bson.M{"flightDetails": bson.M{"returnDate": "TBD"}}, today) {
		t.Fatal("unparseable dates must never qualify")
	}
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 6, 1, 17, 45, 12, 999, time.UTC)
	got := startOfDay(at)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("got %v", got)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 1 {
		t.Fatalf("date changed: %v", got)
	}
}
