// Package validation enforces the ticket input contract. Violations are
// returned as data, one FieldError per broken constraint, never as errors.
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spec-kit/support-tickets/internal/domain"
)

const rootField = "(root)"

var fieldLabels = map[string]string{
	"customer_id":          "Customer ID",
	"customer_email":       "Customer email",
	"customer_name":        "Customer name",
	"subject":              "Subject",
	"description":          "Description",
	"category":             "Category",
	"priority":             "Priority",
	"status":               "Status",
	"assigned_to":          "Assigned to",
	"tags":                 "Tags",
	"metadata":             "Metadata",
	"metadata.source":      "Source",
	"metadata.browser":     "Browser",
	"metadata.device_type": "Device type",
	"auto_classify":        "Auto classify",
}

// Validator holds the compiled create and update schemas. It is safe for concurrent use.
type Validator struct {
	create *gojsonschema.Schema
	update *gojsonschema.Schema
}

// New compiles the ticket schemas.
func New() (*Validator, error) {
	registerFormats.Do(func() {
		gojsonschema.FormatCheckers.Add("email", emailChecker{})
	})
	create, err := compile(createSchema)
	if err != nil {
		return nil, fmt.Errorf("compile create schema: %w", err)
	}
	update, err := compile(updateSchema)
	if err != nil {
		return nil, fmt.Errorf("compile update schema: %w", err)
	}
	return &Validator{create: create, update: update}, nil
}

func compile(build func() ([]byte, error)) (*gojsonschema.Schema, error) {
	raw, err := build()
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

// ValidateCreate checks raw against the create contract. Defaults are not applied.
func (v *Validator) ValidateCreate(raw any) (*domain.CreateTicketInput, []domain.FieldError) {
	if errs := check(v.create, raw); len(errs) > 0 {
		return nil, errs
	}
	var input domain.CreateTicketInput
	if err := remarshal(raw, &input); err != nil {
		return nil, []domain.FieldError{{Field: "body", Message: err.Error()}}
	}
	return &input, nil
}

// ValidateUpdate checks a partial update. Unknown keys such as id or created_at are dropped.
func (v *Validator) ValidateUpdate(raw any) (*domain.TicketUpdate, []domain.FieldError) {
	if errs := check(v.update, raw); len(errs) > 0 {
		return nil, errs
	}
	var update domain.TicketUpdate
	if err := remarshal(raw, &update); err != nil {
		return nil, []domain.FieldError{{Field: "body", Message: err.Error()}}
	}
	return &update, nil
}

func check(schema *gojsonschema.Schema, raw any) []domain.FieldError {
	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return []domain.FieldError{{Field: "body", Message: err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]domain.FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		field := fieldPath(re)
		errs = append(errs, domain.FieldError{Field: field, Message: message(field, re)})
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return rank(errs[i].Field) < rank(errs[j].Field)
	})
	return errs
}

func fieldPath(re gojsonschema.ResultError) string {
	field := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if field == rootField {
				return prop
			}
			return field + "." + prop
		}
	}
	if field == rootField {
		return "body"
	}
	return field
}

func rank(field string) int {
	for f := field; f != ""; {
		for i, known := range fieldOrder {
			if known == f {
				return i
			}
		}
		idx := strings.LastIndex(f, ".")
		if idx < 0 {
			break
		}
		f = f[:idx]
	}
	return len(fieldOrder)
}

func message(field string, re gojsonschema.ResultError) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	details := re.Details()
	switch re.Type() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "invalid_type":
		return fmt.Sprintf("%s must be of type %v, got %v", label, details["expected"], details["given"])
	case "string_gte":
		if fmt.Sprint(details["min"]) == "1" {
			return fmt.Sprintf("%s is required", label)
		}
		return fmt.Sprintf("%s must be at least %v characters", label, details["min"])
	case "string_lte":
		return fmt.Sprintf("%s must be %v characters or less", label, details["max"])
	case "enum":
		return fmt.Sprintf("%s must be one of: %v", label, details["allowed"])
	case "format":
		return fmt.Sprintf("Invalid %s format", details["format"])
	default:
		return re.Description()
	}
}

func remarshal(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
