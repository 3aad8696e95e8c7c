package handlers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-tickets/internal/domain"
	"github.com/spec-kit/support-tickets/internal/service"
	apperrors "github.com/spec-kit/support-tickets/pkg/util/errorutil"
)

// ImportHandler accepts bulk ticket uploads.
type ImportHandler struct {
	service             *service.ImportService
	maxUploadBytes      int64
	defaultAutoClassify bool
}

// NewImportHandler constructs handler.
func NewImportHandler(importService *service.ImportService, maxUploadBytes int64, defaultAutoClassify bool) *ImportHandler {
	return &ImportHandler{
		service:             importService,
		maxUploadBytes:      maxUploadBytes,
		defaultAutoClassify: defaultAutoClassify,
	}
}

// Import POST /tickets/import. Expects a multipart "file" part and an
// optional "auto_classify" form field.
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("no file uploaded", map[string]any{
			"errors": []domain.FieldError{{Field: "file", Message: "No file uploaded"}},
		})
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return apperrors.NewDomainError("PAYLOAD_TOO_LARGE",
			fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes),
			fiber.StatusRequestEntityTooLarge,
			map[string]any{"filename": header.Filename, "size": header.Size})
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("read upload: %w", err))
	}

	result, err := h.service.ImportFromFile(c.UserContext(), content, header.Filename,
		header.Header.Get(fiber.HeaderContentType), h.autoClassify(c))
	if err != nil {
		return err
	}
	if result.Aborted() {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	return c.JSON(result)
}

func (h *ImportHandler) autoClassify(c *fiber.Ctx) bool {
	raw := c.FormValue("auto_classify")
	if raw == "" {
		return h.defaultAutoClassify
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return parsed
}
