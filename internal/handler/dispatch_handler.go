package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/service/dispatch"
)

type DispatchHandler struct {
	dispatchService dispatch.Service
}

func NewDispatchHandler(dispatchService dispatch.Service) *DispatchHandler {
	return &DispatchHandler{dispatchService: dispatchService}
}

func (h *DispatchHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateDispatchInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.CallerName == "" || input.Location == "" || input.FacilityID == "" {
		return middleware.BadRequest("Caller name, location and facility are required")
	}

	call, err := h.dispatchService.Create(c.Context(), currentActor(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(call)
}

func (h *DispatchHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("callId"))
	if err != nil {
		return middleware.BadRequest("Invalid call ID")
	}

	call, err := h.dispatchService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDispatchNotFound) {
			return middleware.NotFound("Dispatch call not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(call)
}

func (h *DispatchHandler) AssignAmbulance(c *fiber.Ctx) error {
	callID, err := uuid.Parse(c.Params("callId"))
	if err != nil {
		return middleware.BadRequest("Invalid call ID")
	}

	var body struct {
		AmbulanceID uuid.UUID `json:"ambulance_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	call, err := h.dispatchService.AssignAmbulance(c.Context(), currentActor(c), callID, body.AmbulanceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDispatchNotFound):
			return middleware.NotFound("Dispatch call not found")
		case errors.Is(err, domain.ErrAmbulanceNotFound):
			return middleware.NotFound("Ambulance not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return middleware.Conflict("Ambulance is not available")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(call)
}

func (h *DispatchHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("callId"))
	if err != nil {
		return middleware.BadRequest("Invalid call ID")
	}

	var body struct {
		Status domain.DispatchStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	call, err := h.dispatchService.UpdateStatus(c.Context(), currentActor(c), id, body.Status)
	if err != nil {
		if errors.Is(err, domain.ErrDispatchNotFound) {
			return middleware.NotFound("Dispatch call not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(call)
}

func (h *DispatchHandler) List(c *fiber.Ctx) error {
	facilityID := c.Query("facility_id")
	if facilityID == "" {
		return middleware.BadRequest("facility_id is required")
	}
	status := domain.DispatchStatus(c.Query("status"))

	result, err := h.dispatchService.List(c.Context(), facilityID, status, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
