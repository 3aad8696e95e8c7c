package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-tickets/internal/domain"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        domain.ImportFormat
	}{
		{name: "csv extension", filename: "tickets.csv", want: domain.FormatCSV},
		{name: "upper case extension", filename: "TICKETS.JSON", want: domain.FormatJSON},
		{name: "xml extension", filename: "export.v2.xml", want: domain.FormatXML},
		{name: "extension wins over content type", filename: "tickets.xml", contentType: "application/json", want: domain.FormatXML},
		{name: "content type fallback", filename: "upload.bin", contentType: "text/csv", want: domain.FormatCSV},
		{name: "json content type", filename: "upload", contentType: "application/json; charset=utf-8", want: domain.FormatJSON},
		{name: "xml content type", filename: "upload.dat", contentType: "application/xml", want: domain.FormatXML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatUnsupported(t *testing.T) {
	_, err := DetectFormat("notes.txt", "text/plain")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestForFormat(t *testing.T) {
	for _, format := range domain.ImportFormats {
		p, err := ForFormat(format)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := ForFormat("yaml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStructuralErrorMessage(t *testing.T) {
	err := structural(domain.FormatJSON, errors.New("unexpected end"))
	assert.Equal(t, "JSON parsing failed: unexpected end", err.Error())

	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.FormatJSON, se.Format)
}
