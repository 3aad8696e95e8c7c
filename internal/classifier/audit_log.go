package classifier

import (
	"strings"
	"sync"

	"github.com/spec-kit/support-tickets/internal/domain"
)

const defaultRecentCount = 10

// AuditLog keeps classification decisions in memory for the process lifetime.
type AuditLog struct {
	mu      sync.RWMutex
	entries []domain.ClassificationLogEntry
}

// NewAuditLog returns an empty log.
func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

// Record appends an entry.
func (l *AuditLog) Record(entry domain.ClassificationLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// All returns every entry, oldest first.
func (l *AuditLog) All() []domain.ClassificationLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyEntries(l.entries)
}

// Recent returns the last n entries, oldest first. n <= 0 means the default of 10.
func (l *AuditLog) Recent(n int) []domain.ClassificationLogEntry {
	if n <= 0 {
		n = defaultRecentCount
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return copyEntries(l.entries[start:])
}

// BySubject returns entries whose subject contains the query, ignoring case.
func (l *AuditLog) BySubject(query string) []domain.ClassificationLogEntry {
	needle := strings.ToLower(query)
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []domain.ClassificationLogEntry{}
	for _, entry := range l.entries {
		if strings.Contains(strings.ToLower(entry.Subject), needle) {
			out = append(out, copyEntry(entry))
		}
	}
	return out
}

// Len returns the number of recorded entries.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops every entry. Intended for tests.
func (l *AuditLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func copyEntries(src []domain.ClassificationLogEntry) []domain.ClassificationLogEntry {
	out := make([]domain.ClassificationLogEntry, len(src))
	for i, entry := range src {
		out[i] = copyEntry(entry)
	}
	return out
}

func copyEntry(entry domain.ClassificationLogEntry) domain.ClassificationLogEntry {
	entry.Result.KeywordsFound = append([]string{}, entry.Result.KeywordsFound...)
	return entry
}
