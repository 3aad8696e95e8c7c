package parser

import (
	"encoding/json"
	"strings"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// Field names shared by every format; they mirror CreateTicketInput.
const (
	fieldCustomerID    = "customer_id"
	fieldCustomerEmail = "customer_email"
	fieldCustomerName  = "customer_name"
	fieldSubject       = "subject"
	fieldDescription   = "description"
	fieldCategory      = "category"
	fieldPriority      = "priority"
	fieldStatus        = "status"
	fieldAssignedTo    = "assigned_to"
	fieldTags          = "tags"
	fieldMetadata      = "metadata"
	fieldSource        = "source"
	fieldBrowser       = "browser"
	fieldDeviceType    = "device_type"
)

var (
	textFields     = []string{fieldCustomerID, fieldCustomerEmail, fieldCustomerName, fieldSubject, fieldDescription}
	optionalEnums  = []string{fieldCategory, fieldPriority, fieldStatus}
	metadataFields = []string{fieldBrowser, fieldDeviceType}
)

// splitTags turns "a, b,,c" into [a b c].
func splitTags(raw string) []any {
	tags := []any{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// parseTagCell accepts a JSON array first and a comma list otherwise.
func parseTagCell(raw string) []any {
	if raw == "" {
		return []any{}
	}
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err == nil && arr != nil {
		return arr
	}
	return splitTags(raw)
}

func defaultMetadata() map[string]any {
	return map[string]any{fieldSource: string(domain.SourceAPI)}
}
