package mailer

import (
	"fmt"
	"html"
	"time"
)

// TripSummary carries the resolved details shown in a feedback request.
type TripSummary struct {
	ClientName  string
	Destination string
	Departure   string
	Return      string
}

// FeedbackEmail renders the post-trip feedback request.
func FeedbackEmail(trip TripSummary, bookingID, feedbackURL string) (subject, body string) {
	name := trip.ClientName
	if name == "" {
		name = "Valued Customer"
	}
	destination := trip.Destination
	if destination == "" {
		destination = "your destination"
	}

	dates := ""
	if trip.Departure != "" {
		dates = fmt.Sprintf("<p><strong>Travel Dates:</strong> %s to %s</p>",
			html.EscapeString(trip.Departure), html.EscapeString(trip.Return))
	}

	subject = "How was your trip? - Share Your Feedback"
	body = fmt.Sprintf(`<html><body>
<h2>Dear %s,</h2>
<p>We hope you had a wonderful trip to <strong>%s</strong>!</p>
<p>Your feedback is incredibly valuable to us. It helps us improve our services and assist future travelers in making their journeys memorable.</p>
<p><a href="%s?bookingId=%s">Share Your Feedback</a></p>
<p><strong>Booking Reference:</strong> %s</p>
<p><strong>Destination:</strong> %s</p>
%s
<p>It will only take 2-3 minutes to complete the survey.</p>
<p>Thank you for choosing us for your travel needs!</p>
<p>Best regards,<br>The Travel Team</p>
<p>&copy; %d. All rights reserved.</p>
</body></html>`,
		html.EscapeString(name),
		html.EscapeString(destination),
		feedbackURL,
		html.EscapeString(bookingID),
		html.EscapeString(bookingID),
		html.EscapeString(destination),
		dates,
		time.Now().Year(),
	)
	return subject, body
}

// ResetPasswordEmail renders the password-reset link mail.
func ResetPasswordEmail(name, resetLink string) (subject, body string) {
	subject = "Password Reset Request"
	body = fmt.Sprintf(`<p>Hello %s,</p>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>
<p>This link is valid for 1 hour.</p>`,
		html.EscapeString(name), resetLink, resetLink)
	return subject, body
}
