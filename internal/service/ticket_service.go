package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/validation"
	apperrors "github.com/spec-kit/support-tickets/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	validator  *validation.Validator
	classifier *classifier.Classifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket and import services.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Validator  *validation.Validator
	Classifier *classifier.Classifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

func (d TicketDependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		validator:  deps.Validator,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.logger(),
	}
}

// CreateTicket validates an untyped payload and stores the ticket. With
// auto_classify set, missing category or priority is filled by the classifier.
func (s *TicketService) CreateTicket(ctx context.Context, raw any) (*domain.Ticket, error) {
	input, fieldErrs := s.validator.ValidateCreate(raw)
	if len(fieldErrs) > 0 {
		return nil, validationFailed(fieldErrs)
	}

	autoClassified := false
	if input.AutoClassify != nil && *input.AutoClassify && input.NeedsClassification() {
		fillClassification(input, s.classifier.Classify(input.Subject, input.Description))
		autoClassified = true
	}

	ticket, err := s.tickets.Create(ctx, *input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerID:     ticket.CustomerID,
			Category:       ticket.Category,
			Priority:       ticket.Priority,
			Subject:        ticket.Subject,
			Source:         ticket.Metadata.Source,
			AutoClassified: autoClassified,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets in creation order matching every set filter.
func (s *TicketService) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := s.tickets.GetByID(ctx, id)
	if !ok {
		return nil, ticketNotFound(id)
	}
	return ticket, nil
}

// UpdateTicket validates a partial payload and merges it into the stored ticket.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, raw any) (*domain.Ticket, error) {
	update, fieldErrs := s.validator.ValidateUpdate(raw)
	if len(fieldErrs) > 0 {
		return nil, validationFailed(fieldErrs)
	}

	before, ok := s.tickets.GetByID(ctx, id)
	if !ok {
		return nil, ticketNotFound(id)
	}
	ticket, ok := s.tickets.Update(ctx, id, *update)
	if !ok {
		return nil, ticketNotFound(id)
	}

	payload := events.TicketUpdatedPayload{Resolved: ticket.ResolvedAt != nil}
	if before.Status != ticket.Status {
		payload.OldStatus = before.Status
		payload.NewStatus = ticket.Status
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload:  payload,
	})
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	ticket, ok := s.tickets.GetByID(ctx, id)
	if !ok || !s.tickets.Delete(ctx, id) {
		return ticketNotFound(id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Payload:  events.TicketDeletedPayload{CustomerID: ticket.CustomerID},
	})
	return nil
}

// ClassifyText classifies free text without touching the store.
func (s *TicketService) ClassifyText(subject, description string) domain.ClassificationResult {
	return s.classifier.Classify(subject, description)
}

// AutoClassifyTicket re-classifies a stored ticket and overwrites its
// category and priority with the result. The text is read and the result
// written in one store operation.
func (s *TicketService) AutoClassifyTicket(ctx context.Context, id string) (*domain.Ticket, domain.ClassificationResult, error) {
	var result domain.ClassificationResult
	ticket, ok := s.tickets.UpdateWith(ctx, id, func(current domain.Ticket) domain.TicketUpdate {
		result = s.classifier.Classify(current.Subject, current.Description)
		return domain.TicketUpdate{
			Category: &result.Category,
			Priority: &result.Priority,
		}
	})
	if !ok {
		return nil, domain.ClassificationResult{}, ticketNotFound(id)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClassified,
		TicketID: id,
		Payload: events.TicketClassifiedPayload{
			Category:   result.Category,
			Priority:   result.Priority,
			Confidence: result.Confidence,
		},
	})
	return ticket, result, nil
}

// RecentClassifications returns the last n audit entries (n <= 0 means 10).
func (s *TicketService) RecentClassifications(n int) []domain.ClassificationLogEntry {
	return s.classifier.AuditLog().Recent(n)
}

// ClassificationsBySubject searches the audit log by subject, ignoring case.
func (s *TicketService) ClassificationsBySubject(query string) []domain.ClassificationLogEntry {
	return s.classifier.AuditLog().BySubject(query)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// fillClassification sets only the fields the caller left open.
func fillClassification(input *domain.CreateTicketInput, result domain.ClassificationResult) {
	if input.Category == nil {
		category := result.Category
		input.Category = &category
	}
	if input.Priority == nil {
		priority := result.Priority
		input.Priority = &priority
	}
}

func validationFailed(fieldErrs []domain.FieldError) error {
	return apperrors.NewValidationError("ticket validation failed", map[string]any{"errors": fieldErrs})
}

func ticketNotFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
