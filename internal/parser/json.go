package parser

import (
	"encoding/json"
	"errors"

	"github.com/spec-kit/support-tickets/internal/domain"
)

var errJSONShape = errors.New(`JSON must be an array or an object with a "tickets" array property`)

// JSONParser accepts a bare array of tickets or {"tickets": [...]}.
type JSONParser struct{}

// Parse implements Parser. The first array element is row 1.
func (JSONParser) Parse(content []byte) ([]domain.RawRecord, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, structural(domain.FormatJSON, err)
	}

	var items []any
	switch v := doc.(type) {
	case map[string]any:
		tickets, ok := v["tickets"].([]any)
		if !ok {
			return nil, structural(domain.FormatJSON, errJSONShape)
		}
		items = tickets
	case []any:
		items = v
	default:
		return nil, structural(domain.FormatJSON, errJSONShape)
	}

	records := make([]domain.RawRecord, 0, len(items))
	for i, item := range items {
		obj, _ := item.(map[string]any)
		records = append(records, domain.RawRecord{
			Data: jsonRecord(obj),
			Row:  i + 1,
		})
	}
	return records, nil
}

func jsonRecord(obj map[string]any) map[string]any {
	data := map[string]any{}
	for _, name := range textFields {
		if val, ok := obj[name]; ok {
			data[name] = val
		}
	}
	for _, name := range optionalEnums {
		if val, ok := obj[name]; ok && val != nil {
			data[name] = val
		}
	}
	if truthy(obj[fieldAssignedTo]) {
		data[fieldAssignedTo] = obj[fieldAssignedTo]
	} else {
		data[fieldAssignedTo] = nil
	}
	if tags, ok := obj[fieldTags].([]any); ok {
		data[fieldTags] = tags
	} else {
		data[fieldTags] = []any{}
	}

	switch meta := obj[fieldMetadata].(type) {
	case nil:
		data[fieldMetadata] = defaultMetadata()
	case map[string]any:
		merged := make(map[string]any, len(meta)+1)
		for k, v := range meta {
			merged[k] = v
		}
		if _, ok := merged[fieldSource]; !ok {
			merged[fieldSource] = string(domain.SourceAPI)
		}
		data[fieldMetadata] = merged
	default:
		// left for the validator to reject
		data[fieldMetadata] = meta
	}
	return data
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
