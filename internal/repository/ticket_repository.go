package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, input domain.CreateTicketInput) (*domain.Ticket, error)
	BulkCreate(ctx context.Context, inputs []domain.CreateTicketInput) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, bool)
	List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, bool)
	// UpdateWith derives the update from the stored ticket while holding the
	// write lock, so no other mutation can land between the read and the write.
	UpdateWith(ctx context.Context, id string, fn func(current domain.Ticket) domain.TicketUpdate) (*domain.Ticket, bool)
	Delete(ctx context.Context, id string) bool
	Count(ctx context.Context) int
	Clear(ctx context.Context)
}

// memoryTicketRepository keeps tickets in process memory. All mutations go
// through one exclusive lock, so updates to an id are linearizable.
type memoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	order   []string
	now     func() time.Time
	newID   func() string
}

// NewTicketRepository instantiates an empty in-memory repository.
func NewTicketRepository() TicketRepository {
	return newMemoryTicketRepository(time.Now)
}

func newMemoryTicketRepository(now func() time.Time) *memoryTicketRepository {
	return &memoryTicketRepository{
		tickets: make(map[string]*domain.Ticket),
		now:     now,
		newID:   uuid.NewString,
	}
}

func (r *memoryTicketRepository) Create(ctx context.Context, input domain.CreateTicketInput) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(input).Clone(), nil
}

func (r *memoryTicketRepository) BulkCreate(ctx context.Context, inputs []domain.CreateTicketInput) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := make([]domain.Ticket, 0, len(inputs))
	for _, input := range inputs {
		created = append(created, *r.insertLocked(input).Clone())
	}
	return created, nil
}

func (r *memoryTicketRepository) insertLocked(input domain.CreateTicketInput) *domain.Ticket {
	now := r.now()
	id := r.newID()
	for _, exists := r.tickets[id]; exists; _, exists = r.tickets[id] {
		id = r.newID()
	}

	ticket := &domain.Ticket{
		ID:            id,
		CustomerID:    input.CustomerID,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		Subject:       input.Subject,
		Description:   input.Description,
		Category:      domain.CategoryOther,
		Priority:      domain.PriorityMedium,
		Status:        domain.StatusNew,
		Tags:          []string{},
		Metadata:      input.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Category != nil {
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		assignee := *input.AssignedTo
		ticket.AssignedTo = &assignee
	}
	if input.Tags != nil {
		ticket.Tags = append([]string{}, input.Tags...)
	}
	if ticket.Metadata.Source == "" {
		ticket.Metadata.Source = domain.SourceAPI
	}
	stored := ticket.Clone()
	r.tickets[id] = stored
	r.order = append(r.order, id)
	return stored
}

func (r *memoryTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, false
	}
	return ticket.Clone(), true
}

func (r *memoryTicketRepository) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Ticket{}
	for _, id := range r.order {
		ticket := r.tickets[id]
		if filter.Matches(ticket) {
			result = append(result, *ticket.Clone())
		}
	}
	return result, nil
}

func (r *memoryTicketRepository) Update(ctx context.Context, id string, update domain.TicketUpdate) (*domain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tickets[id]
	if !ok {
		return nil, false
	}
	return r.updateLocked(id, current, update), true
}

func (r *memoryTicketRepository) UpdateWith(ctx context.Context, id string, fn func(current domain.Ticket) domain.TicketUpdate) (*domain.Ticket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tickets[id]
	if !ok {
		return nil, false
	}
	return r.updateLocked(id, current, fn(*current.Clone())), true
}

func (r *memoryTicketRepository) updateLocked(id string, current *domain.Ticket, update domain.TicketUpdate) *domain.Ticket {
	next := current.Clone()
	applyUpdate(next, update)

	now := r.now()
	if !now.After(current.UpdatedAt) {
		now = current.UpdatedAt.Add(time.Nanosecond)
	}
	next.UpdatedAt = now
	if next.ResolvedAt == nil && update.Status != nil && update.Status.IsTerminal() {
		resolved := now
		next.ResolvedAt = &resolved
	}

	r.tickets[id] = next
	return next.Clone()
}

func applyUpdate(t *domain.Ticket, u domain.TicketUpdate) {
	if u.CustomerID != nil {
		t.CustomerID = *u.CustomerID
	}
	if u.CustomerEmail != nil {
		t.CustomerEmail = *u.CustomerEmail
	}
	if u.CustomerName != nil {
		t.CustomerName = *u.CustomerName
	}
	if u.Subject != nil {
		t.Subject = *u.Subject
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.AssignedTo.Set {
		t.AssignedTo = nil
		if u.AssignedTo.Value != nil {
			assignee := *u.AssignedTo.Value
			t.AssignedTo = &assignee
		}
	}
	if u.Tags != nil {
		t.Tags = append([]string{}, u.Tags...)
	}
	if m := u.Metadata; m != nil {
		if m.Source != nil {
			t.Metadata.Source = *m.Source
		}
		if m.Browser != nil {
			browser := *m.Browser
			t.Metadata.Browser = &browser
		}
		if m.DeviceType != nil {
			device := *m.DeviceType
			t.Metadata.DeviceType = &device
		}
	}
}

func (r *memoryTicketRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return false
	}
	delete(r.tickets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *memoryTicketRepository) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tickets)
}

func (r *memoryTicketRepository) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets = make(map[string]*domain.Ticket)
	r.order = nil
}
