package handlers

import (
	"testing"
)

func TestFlattenObjectNested(t *testing.T) {
	input := map[string]interface{}{
		"Status": "Follow Up",
		"bookingType": map[string]interface{}{
			"flightBooking": map[string]interface{}{
				"passengerDetails": map[string]interface{}{
					"email": "a@b.com",
				},
			},
		},
	}

	out := flattenObject(input)

	if out["Status"] != "Follow Up" {
		t.Fatalf("expected top-level field preserved, got %v", out["Status"])
	}
	if out["bookingType.flightBooking.passengerDetails.email"] != "a@b.com" {
		t.Fatalf("expected dotted path, got %v", out)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 flattened keys, got %d", len(out))
	}
}

func TestFlattenObjectArraysAreLeaves(t *testing.T) {
	input := map[string]interface{}{
		"travelers": []interface{}{
			map[string]interface{}{"name": "A"},
		},
	}

	out := flattenObject(input)

	if _, ok := out["travelers"]; !ok {
		t.Fatal("expected array kept whole under its own key")
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 key, got %d", len(out))
	}
}

func TestHasFinancialField(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]interface{}
		want   bool
	}{
		{"exact match", map[string]interface{}{"totalAmount": 100}, true},
		{"dotted suffix", map[string]interface{}{"payment.paidAmount": 50}, true},
		{"deep suffix", map[string]interface{}{"a.b.remainingAmount": 0}, true},
		{"similar name", map[string]interface{}{"totalAmountNote": "x"}, false},
		{"prefix only", map[string]interface{}{"paidAmount.currency": "INR"}, false},
		{"none", map[string]interface{}{"Status": "New"}, false},
	}

	for _, tc := range cases {
		if got := hasFinancialField(tc.fields); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStripImmutableFields(t *testing.T) {
	fields := map[string]interface{}{
		"_id":             "x",
		"uniqueBookingId": "USR-AAAA",
		"organisationId":  "y",
		"adminId":         "z",
		"userId":          "w",
		"createdAt":       "now",
		"Status":          "New",
	}

	stripImmutableFields(fields)

	if len(fields) != 1 {
		t.Fatalf("expected only mutable fields to survive, got %v", fields)
	}
	if fields["Status"] != "New" {
		t.Fatal("expected Status untouched")
	}
}
