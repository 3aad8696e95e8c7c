package validation

import (
	"encoding/json"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// fieldOrder fixes error ordering; gojsonschema walks properties in map order.
var fieldOrder = []string{
	"customer_id",
	"customer_email",
	"customer_name",
	"subject",
	"description",
	"category",
	"priority",
	"status",
	"assigned_to",
	"tags",
	"metadata",
	"metadata.source",
	"metadata.browser",
	"metadata.device_type",
	"auto_classify",
}

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func ticketProperties(metadataRequired bool) map[string]any {
	metadata := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source":      map[string]any{"type": "string", "enum": enumOf(domain.TicketSources)},
			"browser":     map[string]any{"type": "string"},
			"device_type": map[string]any{"type": "string", "enum": enumOf(domain.DeviceTypes)},
		},
	}
	if metadataRequired {
		metadata["required"] = []string{"source"}
	}
	return map[string]any{
		"customer_id":    map[string]any{"type": "string", "minLength": 1},
		"customer_email": map[string]any{"type": "string", "format": "email"},
		"customer_name":  map[string]any{"type": "string", "minLength": 1},
		"subject":        map[string]any{"type": "string", "minLength": 1, "maxLength": 200},
		"description":    map[string]any{"type": "string", "minLength": 10, "maxLength": 2000},
		"category":       map[string]any{"type": "string", "enum": enumOf(domain.TicketCategories)},
		"priority":       map[string]any{"type": "string", "enum": enumOf(domain.TicketPriorities)},
		"status":         map[string]any{"type": "string", "enum": enumOf(domain.TicketStatuses)},
		"assigned_to":    map[string]any{"type": []string{"string", "null"}},
		"tags":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"metadata":       metadata,
		"auto_classify":  map[string]any{"type": "boolean"},
	}
}

// createSchema is the contract for a new ticket.
func createSchema() ([]byte, error) {
	return json.Marshal(map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      "Create Ticket",
		"type":       "object",
		"required":   []string{"customer_id", "customer_email", "customer_name", "subject", "description", "metadata"},
		"properties": ticketProperties(true),
	})
}

// updateSchema is the contract for a partial update; nothing is required.
func updateSchema() ([]byte, error) {
	props := ticketProperties(false)
	delete(props, "auto_classify")
	return json.Marshal(map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      "Update Ticket",
		"type":       "object",
		"properties": props,
	})
}
