package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/service/audit"
)

type AuditHandler struct {
	auditService audit.Service
}

func NewAuditHandler(auditService audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) List(c *fiber.Ctx) error {
	filter, err := parseAuditFilter(c)
	if err != nil {
		return err
	}

	result, err := h.auditService.List(c.Context(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuditHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return middleware.BadRequest("Search query is required")
	}

	result, err := h.auditService.Search(c.Context(), query, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuditHandler) Statistics(c *fiber.Ctx) error {
	timeframe := domain.AuditTimeframe(c.Query("timeframe", string(domain.Timeframe24h)))
	switch timeframe {
	case domain.Timeframe24h, domain.Timeframe7d, domain.Timeframe30d:
	default:
		return middleware.BadRequest("Timeframe must be one of 24h, 7d, 30d")
	}

	stats, err := h.auditService.Statistics(c.Context(), timeframe)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *AuditHandler) Export(c *fiber.Ctx) error {
	filter, err := parseAuditFilter(c)
	if err != nil {
		return err
	}

	data, err := h.auditService.ExportCSV(c.Context(), filter)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("audit-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *AuditHandler) Archive(c *fiber.Ctx) error {
	filter, err := parseAuditFilter(c)
	if err != nil {
		return err
	}

	objectName, err := h.auditService.ArchiveCSV(c.Context(), filter, currentActor(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"object_name": objectName,
	})
}

func parseAuditFilter(c *fiber.Ctx) (domain.AuditLogFilter, error) {
	filter := domain.AuditLogFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		FacilityID: c.Query("facility_id"),
	}

	if userID := c.Query("user_id"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return filter, middleware.BadRequest("Invalid user ID")
		}
		filter.UserID = &id
	}

	if action := c.Query("action"); action != "" {
		a := domain.AuditAction(action)
		if !a.IsValid() {
			return filter, middleware.BadRequest("Invalid audit action")
		}
		filter.Action = a
	}

	if start := c.Query("start_date"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return filter, middleware.BadRequest("start_date must be RFC3339")
		}
		filter.StartDate = &t
	}

	if end := c.Query("end_date"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return filter, middleware.BadRequest("end_date must be RFC3339")
		}
		filter.EndDate = &t
	}

	return filter, nil
}
