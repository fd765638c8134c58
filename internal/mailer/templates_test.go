package mailer

import (
	"strings"
	"testing"
)

func TestFeedbackEmailContents(t *testing.T) {
	trip := TripSummary{
		ClientName:  "Asha",
		Destination: "Bali",
		Departure:   "2025-05-10",
		Return:      "2025-05-20",
	}

	subject, body := FeedbackEmail(trip, "USR-1A2B3C4D", "https://example.com/feedback")

	if subject != "How was your trip? - Share Your Feedback" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{
		"Asha",
		"Bali",
		"USR-1A2B3C4D",
		"https://example.com/feedback?bookingId=USR-1A2B3C4D",
		"2025-05-10 to 2025-05-20",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestFeedbackEmailDefaults(t *testing.T) {
	_, body := FeedbackEmail(TripSummary{}, "USR-00000000", "https://example.com/feedback")

	if !strings.Contains(body, "Valued Customer") {
		t.Fatal("expected fallback client name")
	}
	if !strings.Contains(body, "your destination") {
		t.Fatal("expected fallback destination")
	}
	if strings.Contains(body, "Travel Dates") {
		t.Fatal("dates block must be omitted when unknown")
	}
}

func TestFeedbackEmailEscapesHTML(t *testing.T) {
	trip := TripSummary{ClientName: "<script>alert(1)</script>"}
	_, body := FeedbackEmail(trip, "USR-00000000", "https://example.com/feedback")

	if strings.Contains(body, "<script>") {
		t.Fatal("client name must be escaped")
	}
}

func TestResetPasswordEmail(t *testing.T) {
	subject, body := ResetPasswordEmail("Asha", "https://example.com/api/reset-password/abc123")

	if subject != "Password Reset Request" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "https://example.com/api/reset-password/abc123") {
		t.Fatal("body missing reset link")
	}
	if !strings.Contains(body, "Asha") {
		t.Fatal("body missing recipient name")
	}
}
