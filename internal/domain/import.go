package domain

// ImportFormat names a supported bulk import document type.
type ImportFormat string

const (
	FormatCSV  ImportFormat = "csv"
	FormatJSON ImportFormat = "json"
	FormatXML  ImportFormat = "xml"
)

// ImportFormats lists formats in detection priority order.
var ImportFormats = []ImportFormat{FormatCSV, FormatJSON, FormatXML}

// RawRecord is one unvalidated ticket as extracted by a parser.
type RawRecord struct {
	Data map[string]any
	Row  int
}

// FieldError describes one violated schema constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportError reports a rejected record (or a whole-document failure at row 0).
type ImportError struct {
	Row     int          `json:"row"`
	Field   string       `json:"field,omitempty"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// ImportResult summarizes one import call.
type ImportResult struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Errors     []ImportError `json:"errors"`
}

// Aborted reports whether the document was rejected before any record was validated.
func (r *ImportResult) Aborted() bool {
	return r.Total == 0 && r.Failed > 0
}
