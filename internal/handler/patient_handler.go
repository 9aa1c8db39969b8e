package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"afyalink/internal/domain"
	"afyalink/internal/middleware"
	"afyalink/internal/service/patient"
)

type PatientHandler struct {
	patientService patient.Service
}

func NewPatientHandler(patientService patient.Service) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var input domain.CreatePatientInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.FirstName == "" || input.LastName == "" || input.FacilityID == "" {
		return middleware.BadRequest("First name, last name and facility are required")
	}

	p, err := h.patientService.Create(c.Context(), currentActor(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return middleware.BadRequest("Invalid patient ID")
	}

	p, err := h.patientService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			return middleware.NotFound("Patient not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *PatientHandler) GetByShaNumber(c *fiber.Ctx) error {
	shaNumber := c.Query("sha_number")
	if shaNumber == "" {
		return middleware.BadRequest("sha_number is required")
	}

	p, err := h.patientService.GetByShaNumber(c.Context(), shaNumber)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			return middleware.NotFound("Patient not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return middleware.BadRequest("Invalid patient ID")
	}

	var input domain.UpdatePatientInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	p, err := h.patientService.Update(c.Context(), currentActor(c), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			return middleware.NotFound("Patient not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return middleware.BadRequest("Invalid patient ID")
	}

	if err := h.patientService.Delete(c.Context(), currentActor(c), id); err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			return middleware.NotFound("Patient not found")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *PatientHandler) List(c *fiber.Ctx) error {
	facilityID := c.Query("facility_id")
	if facilityID == "" {
		return middleware.BadRequest("facility_id is required")
	}

	result, err := h.patientService.List(c.Context(), facilityID, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
