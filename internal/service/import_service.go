package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/parser"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/validation"
	apperrors "github.com/spec-kit/support-tickets/pkg/util/errorutil"
)

// ImportRecorder counts finished imports.
type ImportRecorder interface {
	RecordImport(format domain.ImportFormat, result *domain.ImportResult)
}

// ImportService runs bulk imports: parse, validate, optionally classify and
// commit the valid subset in one batch.
type ImportService struct {
	tickets    repository.TicketRepository
	validator  *validation.Validator
	classifier *classifier.Classifier
	dispatcher events.Dispatcher
	recorder   ImportRecorder
	logger     *zap.Logger
}

// NewImportService constructs the service. recorder may be nil.
func NewImportService(deps TicketDependencies, recorder ImportRecorder) *ImportService {
	return &ImportService{
		tickets:    deps.TicketRepo,
		validator:  deps.Validator,
		classifier: deps.Classifier,
		dispatcher: deps.Dispatcher,
		recorder:   recorder,
		logger:     deps.logger(),
	}
}

// ImportFromFile detects the format from filename and content type, then imports.
func (s *ImportService) ImportFromFile(ctx context.Context, content []byte, filename, contentType string, autoClassify bool) (*domain.ImportResult, error) {
	format, err := parser.DetectFormat(filename, contentType)
	if err != nil {
		supported := make([]string, 0, len(domain.ImportFormats))
		for _, f := range domain.ImportFormats {
			supported = append(supported, string(f))
		}
		return nil, apperrors.NewUnsupportedFormat(err, map[string]any{
			"filename":     filename,
			"content_type": contentType,
			"supported":    supported,
		})
	}
	return s.Import(ctx, content, format, autoClassify)
}

// Import processes one document. Parse failures and rejected records are
// reported in the result; the error is reserved for store failures.
func (s *ImportService) Import(ctx context.Context, content []byte, format domain.ImportFormat, autoClassify bool) (*domain.ImportResult, error) {
	logger := s.logger.With(zap.String("format", string(format)), zap.Bool("auto_classify", autoClassify))

	records, err := parseDocument(content, format)
	if err != nil {
		logger.Warn("import document rejected", zap.Error(err))
		result := &domain.ImportResult{
			Failed: 1,
			Errors: []domain.ImportError{{Row: 0, Message: err.Error()}},
		}
		s.finish(ctx, format, result)
		return result, nil
	}

	inputs := make([]domain.CreateTicketInput, 0, len(records))
	rejected := []domain.ImportError{}
	for _, record := range records {
		input, fieldErrs := s.validator.ValidateCreate(record.Data)
		if len(fieldErrs) > 0 {
			rejected = append(rejected, rejection(record.Row, fieldErrs))
			continue
		}
		flag := autoClassify
		input.AutoClassify = &flag
		if autoClassify && input.NeedsClassification() {
			fillClassification(input, s.classifier.Classify(input.Subject, input.Description))
		}
		inputs = append(inputs, *input)
	}

	created, err := s.tickets.BulkCreate(ctx, inputs)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := &domain.ImportResult{
		Total:      len(records),
		Successful: len(created),
		Failed:     len(rejected),
		Errors:     rejected,
	}
	logger.Info("import finished",
		zap.Int("total", result.Total),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed))
	s.finish(ctx, format, result)
	return result, nil
}

func parseDocument(content []byte, format domain.ImportFormat) ([]domain.RawRecord, error) {
	p, err := parser.ForFormat(format)
	if err != nil {
		return nil, err
	}
	return p.Parse(content)
}

func (s *ImportService) finish(ctx context.Context, format domain.ImportFormat, result *domain.ImportResult) {
	if s.recorder != nil {
		s.recorder.RecordImport(format, result)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type: events.EventTicketsImported,
		Payload: events.TicketsImportedPayload{
			Format:     format,
			Total:      result.Total,
			Successful: result.Successful,
			Failed:     result.Failed,
		},
	})
}

// rejection folds every violated constraint of one record into a single
// ImportError so that failed counts records, not constraints.
func rejection(row int, fieldErrs []domain.FieldError) domain.ImportError {
	fields := make([]string, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			fields = append(fields, fe.Field)
		}
		messages = append(messages, fe.Message)
	}
	return domain.ImportError{
		Row:     row,
		Field:   strings.Join(fields, ", "),
		Message: strings.Join(messages, "; "),
		Details: fieldErrs,
	}
}
