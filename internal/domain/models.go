package domain

import "time"

// Domain contains core models shared between the poster and publishers.

// Exchange is the outcome of one request/response round trip.
type Exchange struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	SentAt     time.Time
}
