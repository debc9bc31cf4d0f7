package publishers

import (
	"time"

	"github.com/Adda-Baaj/userpost/internal/domain"
	"github.com/google/uuid"
)

// Event represents an exchange reported downstream.
type Event struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
	ReportedAt time.Time `json:"reported_at"`
}

// NewEvent constructs an Event for the given exchange.
func NewEvent(ex domain.Exchange) Event {
	return Event{
		ID:         uuid.NewString(),
		Method:     ex.Method,
		URL:        ex.URL,
		StatusCode: ex.StatusCode,
		Body:       string(ex.Body),
		SentAt:     ex.SentAt,
		ReportedAt: time.Now().UTC(),
	}
}
