package events

import (
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventTicketDeleted    EventType = "ticket_deleted"
	EventTicketClassified EventType = "ticket_classified"
	EventTicketsImported  EventType = "tickets_imported"
)

// AllEventTypes lists every type a subscriber may register for.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventTicketClassified,
	EventTicketsImported,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID     string                `json:"customer_id"`
	Category       domain.TicketCategory `json:"category"`
	Priority       domain.TicketPriority `json:"priority"`
	Subject        string                `json:"subject"`
	Source         domain.TicketSource   `json:"source"`
	AutoClassified bool                  `json:"auto_classified"`
}

// TicketUpdatedPayload payload. Old and new values are only set for status
// changes.
type TicketUpdatedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status,omitempty"`
	NewStatus domain.TicketStatus `json:"new_status,omitempty"`
	Resolved  bool                `json:"resolved"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	CustomerID string `json:"customer_id"`
}

// TicketClassifiedPayload payload.
type TicketClassifiedPayload struct {
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	Confidence float64               `json:"confidence"`
}

// TicketsImportedPayload payload.
type TicketsImportedPayload struct {
	Format     domain.ImportFormat `json:"format"`
	Total      int                 `json:"total"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
}
