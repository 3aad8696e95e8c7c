package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/spec-kit/support-tickets/internal/domain"
)

// CSVParser reads a header row followed by one ticket per line.
type CSVParser struct{}

// Parse implements Parser. The first data line is row 2.
func (CSVParser) Parse(content []byte) ([]domain.RawRecord, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, structural(domain.FormatCSV, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records := []domain.RawRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, structural(domain.FormatCSV, err)
		}
		cells := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				cells[name] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, domain.RawRecord{
			Data: csvRecord(cells),
			Row:  len(records) + 2,
		})
	}
	return records, nil
}

func csvRecord(cells map[string]string) map[string]any {
	data := map[string]any{}
	for _, name := range textFields {
		if val, ok := cells[name]; ok {
			data[name] = val
		}
	}
	for _, name := range optionalEnums {
		if val := cells[name]; val != "" {
			data[name] = val
		}
	}
	if val := cells[fieldAssignedTo]; val != "" {
		data[fieldAssignedTo] = val
	} else {
		data[fieldAssignedTo] = nil
	}
	data[fieldTags] = parseTagCell(cells[fieldTags])

	metadata := defaultMetadata()
	if val := cells[fieldSource]; val != "" {
		metadata[fieldSource] = val
	}
	for _, name := range metadataFields {
		if val := cells[name]; val != "" {
			metadata[name] = val
		}
	}
	data[fieldMetadata] = metadata
	return data
}
