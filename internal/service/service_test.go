package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/validation"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handle(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func (r *recordedEvents) last() events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	deps     TicketDependencies
	tickets  *TicketService
	imports  *ImportService
	events   *recordedEvents
	recorder *importCounter
}

type importCounter struct {
	mu      sync.Mutex
	formats []domain.ImportFormat
	results []domain.ImportResult
}

func (c *importCounter) RecordImport(format domain.ImportFormat, result *domain.ImportResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.formats = append(c.formats, format)
	c.results = append(c.results, *result)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	v, err := validation.New()
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	recorded := &recordedEvents{}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, recorded.handle)
	}

	deps := TicketDependencies{
		TicketRepo: repository.NewTicketRepository(),
		Validator:  v,
		Classifier: classifier.New(nil, nil, nil),
		Dispatcher: dispatcher,
	}
	counter := &importCounter{}
	return &fixture{
		deps:     deps,
		tickets:  NewTicketService(deps),
		imports:  NewImportService(deps, counter),
		events:   recorded,
		recorder: counter,
	}
}

func validPayload() map[string]any {
	return map[string]any{
		"customer_id":    "CUST001",
		"customer_email": "jane@example.com",
		"customer_name":  "Jane Doe",
		"subject":        "Question about my plan",
		"description":    "I would like to know more about the plans you offer.",
		"metadata":       map[string]any{"source": "web_form"},
	}
}
