package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/service/ambulance"
)

type AmbulanceHandler struct {
	ambulanceService ambulance.Service
}

func NewAmbulanceHandler(ambulanceService ambulance.Service) *AmbulanceHandler {
	return &AmbulanceHandler{ambulanceService: ambulanceService}
}

func (h *AmbulanceHandler) Create(c *fiber.Ctx) error {
	var amb domain.Ambulance
	if err := c.BodyParser(&amb); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if amb.CallSign == "" || amb.FacilityID == "" {
		return middleware.BadRequest("Call sign and facility are required")
	}

	if err := h.ambulanceService.Create(c.Context(), currentActor(c), &amb); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(amb)
}

func (h *AmbulanceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("ambulanceId"))
	if err != nil {
		return middleware.BadRequest("Invalid ambulance ID")
	}

	amb, err := h.ambulanceService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAmbulanceNotFound) {
			return middleware.NotFound("Ambulance not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(amb)
}

func (h *AmbulanceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("ambulanceId"))
	if err != nil {
		return middleware.BadRequest("Invalid ambulance ID")
	}

	var body struct {
		Status   domain.AmbulanceStatus `json:"status"`
		Location *string                `json:"location,omitempty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	amb, err := h.ambulanceService.UpdateStatus(c.Context(), currentActor(c), id, body.Status, body.Location)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmbulanceNotFound):
			return middleware.NotFound("Ambulance not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return middleware.BadRequest("Invalid ambulance status")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(amb)
}

func (h *AmbulanceHandler) List(c *fiber.Ctx) error {
	facilityID := c.Query("facility_id")
	if facilityID == "" {
		return middleware.BadRequest("facility_id is required")
	}

	if c.Query("available") == "true" {
		ambulances, err := h.ambulanceService.ListAvailable(c.Context(), facilityID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusOK).JSON(ambulances)
	}

	ambulances, err := h.ambulanceService.ListByFacility(c.Context(), facilityID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(ambulances)
}
