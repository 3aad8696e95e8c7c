// Package parser turns uploaded import documents into row-numbered raw ticket
// records. Parsers do best-effort field extraction only; schema rules belong to
// the validation package.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// ErrUnsupportedFormat is returned when neither filename nor content type names a known format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Parser converts one document format into raw records.
type Parser interface {
	Parse(content []byte) ([]domain.RawRecord, error)
}

// StructuralError reports a document that is malformed for its format.
type StructuralError struct {
	Format domain.ImportFormat
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s parsing failed: %v", strings.ToUpper(string(e.Format)), e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structural(format domain.ImportFormat, err error) error {
	return &StructuralError{Format: format, Err: err}
}

// ForFormat selects the parser strategy for a format.
func ForFormat(format domain.ImportFormat) (Parser, error) {
	switch format {
	case domain.FormatCSV:
		return CSVParser{}, nil
	case domain.FormatJSON:
		return JSONParser{}, nil
	case domain.FormatXML:
		return XMLParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// DetectFormat picks a format from the file extension, falling back to the content type.
func DetectFormat(filename, contentType string) (domain.ImportFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, format := range domain.ImportFormats {
		if ext == string(format) {
			return format, nil
		}
	}
	ct := strings.ToLower(contentType)
	for _, format := range domain.ImportFormats {
		if strings.Contains(ct, string(format)) {
			return format, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}
