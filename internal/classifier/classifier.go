// Package classifier assigns a category and priority to ticket text by
// counting keyword hits.
package classifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/domain"
)

const (
	defaultCategoryConfidence = 0.3
	defaultPriorityConfidence = 0.6
	baseConfidence            = 0.5
	confidencePerKeyword      = 0.15
	maxConfidence             = 0.95
	reasoningKeywordLimit     = 3
)

// Recorder counts classification outcomes.
type Recorder interface {
	RecordClassification(category domain.TicketCategory, priority domain.TicketPriority)
}

// Classifier scores text and keeps an audit trail of every decision.
type Classifier struct {
	audit    *AuditLog
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// New builds a Classifier. A nil logger or recorder is allowed.
func New(audit *AuditLog, logger *zap.Logger, recorder Recorder) *Classifier {
	if audit == nil {
		audit = NewAuditLog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{audit: audit, logger: logger, recorder: recorder, now: time.Now}
}

// AuditLog exposes the decisions recorded by this classifier.
func (c *Classifier) AuditLog() *AuditLog {
	return c.audit
}

// Classify scores the text, records the decision and returns it.
func (c *Classifier) Classify(subject, description string) domain.ClassificationResult {
	result := Score(subject, description)
	c.audit.Record(domain.ClassificationLogEntry{
		Timestamp: c.now(),
		Subject:   subject,
		Result:    result,
	})
	if c.recorder != nil {
		c.recorder.RecordClassification(result.Category, result.Priority)
	}
	c.logger.Info("ticket classified",
		zap.String("subject", subject),
		zap.String("category", string(result.Category)),
		zap.String("priority", string(result.Priority)),
		zap.Float64("confidence", result.Confidence),
		zap.Strings("keywords", result.KeywordsFound))
	return result
}

type match struct {
	count    int
	keywords []string
}

// Score is the pure classification function.
func Score(subject, description string) domain.ClassificationResult {
	text := strings.ToLower(subject + " " + description)

	category, categoryConfidence, categoryKeywords := domain.CategoryOther, defaultCategoryConfidence, []string{}
	best := match{}
	for _, entry := range categoryTable {
		m := scan(text, entry.keywords)
		if m.count > best.count {
			best = m
			category = entry.category
		}
	}
	if best.count > 0 {
		categoryConfidence = confidenceFor(best.count)
		categoryKeywords = best.keywords
	}

	priority, priorityConfidence, priorityKeywords := domain.PriorityMedium, defaultPriorityConfidence, []string{}
	best = match{}
	for _, entry := range priorityTable {
		m := scan(text, entry.keywords)
		if m.count > best.count {
			best = m
			priority = entry.priority
		}
	}
	if best.count > 0 {
		priorityConfidence = confidenceFor(best.count)
		priorityKeywords = best.keywords
	}

	keywords := make([]string, 0, len(categoryKeywords)+len(priorityKeywords))
	keywords = append(keywords, categoryKeywords...)
	keywords = append(keywords, priorityKeywords...)

	return domain.ClassificationResult{
		Category:      category,
		Priority:      priority,
		Confidence:    (categoryConfidence + priorityConfidence) / 2,
		Reasoning:     reasoning(category, categoryKeywords, priority, priorityKeywords),
		KeywordsFound: keywords,
	}
}

func scan(text string, keywords []string) match {
	m := match{}
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			m.count++
			m.keywords = append(m.keywords, kw)
		}
	}
	return m
}

func confidenceFor(count int) float64 {
	return math.Min(baseConfidence+float64(count)*confidencePerKeyword, maxConfidence)
}

func reasoning(category domain.TicketCategory, categoryKeywords []string, priority domain.TicketPriority, priorityKeywords []string) string {
	var parts [2]string
	if len(categoryKeywords) > 0 {
		parts[0] = fmt.Sprintf("Categorized as '%s' based on keywords: %s", category, strings.Join(head(categoryKeywords), ", "))
	} else {
		parts[0] = fmt.Sprintf("Categorized as '%s' (no specific keywords found)", category)
	}
	if len(priorityKeywords) > 0 {
		parts[1] = fmt.Sprintf("Priority set to '%s' based on keywords: %s", priority, strings.Join(head(priorityKeywords), ", "))
	} else {
		parts[1] = fmt.Sprintf("Priority set to '%s' (default)", priority)
	}
	return parts[0] + ". " + parts[1] + "."
}

func head(keywords []string) []string {
	if len(keywords) > reasoningKeywordLimit {
		return keywords[:reasoningKeywordLimit]
	}
	return keywords
}
