package classifier

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/domain"
)

func TestScoreAccountAccess(t *testing.T) {
	got := Score("Cannot login, forgot my password, locked out", "")

	assert.Equal(t, domain.CategoryAccountAccess, got.Category)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, []string{"login", "password", "locked out"}, got.KeywordsFound)
	assert.InDelta(t, (0.95+0.6)/2, got.Confidence, 1e-9)
	assert.GreaterOrEqual(t, got.Confidence, 0.5)
	assert.Equal(t,
		"Categorized as 'account_access' based on keywords: login, password, locked out. Priority set to 'medium' (default).",
		got.Reasoning)
}

func TestScoreNoKeywords(t *testing.T) {
	got := Score("Hello", "Just saying hi to the team")

	assert.Equal(t, domain.CategoryOther, got.Category)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Empty(t, got.KeywordsFound)
	assert.InDelta(t, (0.3+0.6)/2, got.Confidence, 1e-9)
	assert.Equal(t,
		"Categorized as 'other' (no specific keywords found). Priority set to 'medium' (default).",
		got.Reasoning)
}

func TestScoreCategoryTieBreaksByDeclarationOrder(t *testing.T) {
	got := Score("login error", "")
	assert.Equal(t, domain.CategoryAccountAccess, got.Category)
	assert.Equal(t, []string{"login"}, got.KeywordsFound)
	assert.InDelta(t, 0.65, (got.Confidence*2)-0.6, 1e-9)
}

func TestScorePriorityTieBreaksUrgentFirst(t *testing.T) {
	got := Score("urgent asap", "")
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.Equal(t, []string{"urgent"}, got.KeywordsFound)
}

func TestScoreReasoningTruncatesKeywords(t *testing.T) {
	got := Score("Production down", "critical outage for everyone")

	assert.Equal(t, domain.CategoryOther, got.Category)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.Equal(t, []string{"critical", "production down", "outage", "down"}, got.KeywordsFound)
	assert.Contains(t, got.Reasoning, "Priority set to 'urgent' based on keywords: critical, production down, outage.")
}

func TestScoreCaseInsensitiveSubstring(t *testing.T) {
	got := Score("REFUND for my INVOICE", "The Payment went through twice")
	assert.Equal(t, domain.CategoryBillingQuestion, got.Category)
	assert.Equal(t, []string{"payment", "invoice", "refund"}, got.KeywordsFound)
}

func TestScoreIsDeterministic(t *testing.T) {
	subject := "App crash when I try to pay my invoice"
	description := "Steps to reproduce: open billing, click pay, it crashes every time. Important!"
	first := Score(subject, description)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Score(subject, description))
	}
}

func TestConfidenceMonotonicAndCapped(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 12; n++ {
		c := confidenceFor(n)
		assert.GreaterOrEqual(t, c, prev, "count %d", n)
		assert.LessOrEqual(t, c, 0.95)
		prev = c
	}
	assert.InDelta(t, 0.65, confidenceFor(1), 1e-9)
	assert.InDelta(t, 0.95, confidenceFor(10), 1e-9)
}

type countingRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *countingRecorder) RecordClassification(category domain.TicketCategory, priority domain.TicketPriority) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("%s/%s", category, priority))
}

func TestClassifierRecordsAudit(t *testing.T) {
	recorder := &countingRecorder{}
	c := New(nil, nil, recorder)

	result := c.Classify("Refund please", "I was charged twice for my subscription")

	entries := c.AuditLog().All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Refund please", entries[0].Subject)
	assert.Equal(t, result, entries[0].Result)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, []string{"billing_question/medium"}, recorder.calls)
}

func TestClassifierConcurrentUse(t *testing.T) {
	c := New(NewAuditLog(), nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Classify(fmt.Sprintf("ticket %d login", i), "cannot sign in to my account")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, c.AuditLog().Len())
}
