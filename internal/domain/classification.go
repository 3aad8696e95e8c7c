package domain

import "time"

// ClassificationResult is the outcome of keyword classification.
type ClassificationResult struct {
	Category      TicketCategory `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Confidence    float64        `json:"confidence"`
	Reasoning     string         `json:"reasoning"`
	KeywordsFound []string       `json:"keywords_found"`
}

// ClassificationLogEntry is one audited classification decision.
type ClassificationLogEntry struct {
	Timestamp time.Time            `json:"timestamp"`
	Subject   string               `json:"subject"`
	Result    ClassificationResult `json:"result"`
}
