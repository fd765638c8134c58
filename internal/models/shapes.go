package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sale documents accumulated under several historical schemas: the nested
// booking payload moved between top-level and a bookingType wrapper, and
// dates were written both as BSON datetimes and as ISO date strings. Every
// known shape is enumerated here, in priority order (newest first), so
// readers resolve fields through one fallback chain instead of scattered
// optional lookups.

var TravelerEmailPaths = [][]string{
	{"bookingType", "flightBooking", "passengerDetails", "email"},
	{"bookingType", "hotelBooking", "guestDetails", "email"},
	{"flightBooking", "passengerDetails", "email"},
	{"hotelBooking", "guestDetails", "email"},
	{"querySource", "guestDetails", "email"},
}

var TravelerNamePaths = [][]string{
	{"bookingType", "flightBooking", "passengerDetails", "firstName"},
	{"bookingType", "hotelBooking", "guestDetails", "firstName"},
	{"flightBooking", "passengerDetails", "firstName"},
	{"hotelBooking", "guestDetails", "firstName"},
	{"querySource", "guestDetails", "name"},
}

var TripEndPaths = [][]string{
	{"bookingType", "flightBooking", "flightDetails", "returnDate"},
	{"bookingType", "hotelBooking", "hotelDetails", "checkOutDate"},
	{"flightBooking", "flightDetails", "returnDate"},
	{"hotelBooking", "hotelDetails", "checkOutDate"},
	{"flightDetails", "returnDate"},
	{"hotelDetails", "checkOutDate"},
}

var DestinationPaths = [][]string{
	{"bookingType", "flightBooking", "flightDetails", "destination"},
	{"bookingType", "hotelBooking", "hotelDetails", "city"},
	{"flightBooking", "flightDetails", "destination"},
	{"hotelBooking", "hotelDetails", "city"},
	{"flightDetails", "destination"},
	{"hotelDetails", "city"},
	{"querySource", "destination"},
}

// LookupPath walks nested bson.M values along path.
func LookupPath(doc bson.M, path []string) (interface{}, bool) {
	var current interface{} = doc
	for _, key := range path {
		m, ok := current.(bson.M)
		if !ok {
			if raw, isMap := current.(map[string]interface{}); isMap {
				m = bson.M(raw)
			} else {
				return nil, false
			}
		}
		value, exists := m[key]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// ResolveString returns the first non-empty string found along the chains.
func ResolveString(doc bson.M, paths [][]string) (string, bool) {
	for _, path := range paths {
		value, ok := LookupPath(doc, path)
		if !ok {
			continue
		}
		if s, isString := value.(string); isString {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

// ResolveDate returns the first parseable date found along the chains.
// Accepts BSON datetimes, time.Time, and ISO date(-time) strings.
func ResolveDate(doc bson.M, paths [][]string) (time.Time, bool) {
	for _, path := range paths {
		value, ok := LookupPath(doc, path)
		if !ok {
			continue
		}
		if t, ok := coerceDate(value); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func coerceDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	case string:
		trimmed := strings.TrimSpace(v)
		if len(trimmed) >= 10 {
			if t, err := time.Parse("2006-01-02", trimmed[:10]); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
