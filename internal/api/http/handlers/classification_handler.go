package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-tickets/internal/api/dto"
	"github.com/spec-kit/support-tickets/internal/service"
	apperrors "github.com/spec-kit/support-tickets/pkg/util/errorutil"
)

// ClassificationHandler exposes the classifier and its audit log.
type ClassificationHandler struct {
	service *service.TicketService
}

// NewClassificationHandler constructs handler.
func NewClassificationHandler(ticketService *service.TicketService) *ClassificationHandler {
	return &ClassificationHandler{service: ticketService}
}

// Classify POST /classify.
func (h *ClassificationHandler) Classify(c *fiber.Ctx) error {
	var req dto.ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("request body must be valid JSON")
	}
	if strings.TrimSpace(req.Subject) == "" && strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("subject or description required", nil)
	}
	return c.JSON(h.service.ClassifyText(req.Subject, req.Description))
}

// List GET /classifications?limit=N or ?subject=text.
func (h *ClassificationHandler) List(c *fiber.Ctx) error {
	if subject := c.Query("subject"); subject != "" {
		entries := h.service.ClassificationsBySubject(subject)
		return c.JSON(dto.ClassificationLogResponse{Total: len(entries), Entries: entries})
	}
	entries := h.service.RecentClassifications(c.QueryInt("limit", 0))
	return c.JSON(dto.ClassificationLogResponse{Total: len(entries), Entries: entries})
}
