package dto

import (
	"time"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// TicketResponse is the wire shape of a stored ticket.
type TicketResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id"`
	CustomerEmail string                `json:"customer_email"`
	CustomerName  string                `json:"customer_name"`
	Subject       string                `json:"subject"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	AssignedTo    *string               `json:"assigned_to"`
	Tags          []string              `json:"tags"`
	Metadata      domain.TicketMetadata `json:"metadata"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	ResolvedAt    *time.Time            `json:"resolved_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		CustomerEmail: t.CustomerEmail,
		CustomerName:  t.CustomerName,
		Subject:       t.Subject,
		Description:   t.Description,
		Category:      t.Category,
		Priority:      t.Priority,
		Status:        t.Status,
		AssignedTo:    t.AssignedTo,
		Tags:          tags,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		ResolvedAt:    t.ResolvedAt,
	}
}

// TicketListResponse is returned by GET /tickets.
type TicketListResponse struct {
	Total   int              `json:"total"`
	Tickets []TicketResponse `json:"tickets"`
}

// NewTicketListResponse maps a listing.
func NewTicketListResponse(tickets []domain.Ticket) TicketListResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return TicketListResponse{Total: len(items), Tickets: items}
}

// DeleteTicketResponse acknowledges a deletion.
type DeleteTicketResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// AutoClassifyResponse is returned by POST /tickets/:id/auto-classify.
type AutoClassifyResponse struct {
	Ticket         TicketResponse              `json:"ticket"`
	Classification domain.ClassificationResult `json:"classification"`
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// ClassificationLogResponse lists audit entries.
type ClassificationLogResponse struct {
	Total   int                             `json:"total"`
	Entries []domain.ClassificationLogEntry `json:"entries"`
}
